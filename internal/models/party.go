package models

type Client struct {
	ID            uint64
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	IsActive      bool
}

type Carrier struct {
	ID            uint64
	CompanyName   string
	ContactPerson string
	Phone         string
	Email         string
	IsActive      bool
}

type Vehicle struct {
	ID          uint64
	PlateNumber string
	Model       string
	Capacity    float64
	CarrierID   uint64
}

type Driver struct {
	ID            uint64
	FullName      string
	LicenseNumber string
	Phone         string
	VehicleID     *uint64
}
