package models

import "time"

// Статусы заказа (пользовательские строки, как в формах).
const (
	OrderStatusCreated    = "Создан"
	OrderStatusProcessing = "В обработке"
	OrderStatusLoading    = "Погрузка"
	OrderStatusInTransit  = "В пути"
	OrderStatusUnloading  = "Выгрузка"
	OrderStatusCompleted  = "Завершен"
	OrderStatusCancelled  = "Отменен"
)

type Order struct {
	ID               uint64
	ClientID         uint64
	CarrierID        uint64
	VehicleID        *uint64
	LoadingAddress   string
	UnloadingAddress string
	CargoName        string
	Packaging        string
	Weight           float64
	LoadingType      string
	OrderDate        time.Time
	LoadingDate      time.Time
	Status           string
}

type OrderCreateInput struct {
	ClientID         uint64
	CarrierID        uint64
	VehicleID        *uint64
	LoadingAddress   string
	UnloadingAddress string
	CargoName        string
	Packaging        string
	Weight           float64
	LoadingType      string
	OrderDate        time.Time
	LoadingDate      time.Time
	Status           string
}

type Payment struct {
	ID              uint64
	OrderID         uint64
	Amount          float64
	PaymentDate     time.Time
	IsClientPayment bool
	Description     string
}

// OverduePayment — платёж от клиента, просроченный относительно даты отсечки.
// Статус заказа нужен только для диагностики, фильтрация делается в хранилище.
type OverduePayment struct {
	PaymentID   uint64
	OrderID     uint64
	Amount      float64
	PaymentDate time.Time
	OrderStatus string
}

type Document struct {
	ID          uint64
	OrderID     uint64
	Name        string
	FilePath    string
	Description string
}
