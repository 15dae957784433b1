package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/murphylog/freightdesk/internal/models"
	"github.com/murphylog/freightdesk/internal/services/ledger"
	"github.com/murphylog/freightdesk/internal/services/logistics"
)

// API отдаёт JSON поверх сервисов журнала уведомлений и логистики.
type API struct {
	ledger    *ledger.Service
	logistics *logistics.Service
}

func New(ledgerSvc *ledger.Service, logisticsSvc *logistics.Service) *API {
	return &API{ledger: ledgerSvc, logistics: logisticsSvc}
}

func (a *API) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", a.listNotifications)
			r.Get("/count", a.countNotifications)
			r.Post("/{id}/read", a.markNotificationRead)
			r.Delete("/", a.clearNotifications)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", a.listClients)
			r.Post("/", a.createClient)
			r.Put("/{id}", a.updateClient)
			r.Delete("/{id}", a.deleteClient)
		})
		r.Route("/carriers", func(r chi.Router) {
			r.Get("/", a.listCarriers)
			r.Post("/", a.createCarrier)
			r.Put("/{id}", a.updateCarrier)
			r.Delete("/{id}", a.deleteCarrier)
		})
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", a.listVehicles)
			r.Post("/", a.createVehicle)
			r.Delete("/{id}", a.deleteVehicle)
		})
		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", a.listDrivers)
			r.Post("/", a.createDriver)
			r.Delete("/{id}", a.deleteDriver)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", a.listOrders)
			r.Post("/", a.createOrder)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.getOrder)
				r.Put("/", a.updateOrder)
				r.Delete("/", a.deleteOrder)
				r.Get("/profit", a.orderProfit)
				r.Get("/payments", a.listOrderPayments)
				r.Post("/payments", a.addOrderPayment)
				r.Get("/documents", a.listOrderDocuments)
				r.Post("/documents", a.addOrderDocument)
			})
		})

		r.Delete("/documents/{id}", a.deleteDocument)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/profit/monthly", a.monthlyProfitReport)
			r.Get("/profit/clients", a.clientProfitReport)
			r.Get("/carriers/activity", a.carrierActivityReport)
		})
	})
}

// --- уведомления ---

type notificationDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
	RelatedID uint64    `json:"relatedId"`
	Type      string    `json:"type"`
}

func toNotificationDTO(n *models.Notification) notificationDTO {
	return notificationDTO{
		ID: n.ID, UserID: n.UserID, Message: n.Message, IsRead: n.IsRead,
		CreatedAt: n.CreatedAt, RelatedID: n.RelatedID, Type: n.Type,
	}
}

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := a.ledger.ListUnread(r.Context(), userIDParam(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]notificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotificationDTO(n))
	}
	respondJSON(w, http.StatusOK, map[string]any{"notifications": out})
}

func (a *API) countNotifications(w http.ResponseWriter, r *http.Request) {
	count, err := a.ledger.CountUnread(r.Context(), userIDParam(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (a *API) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	ok, err := a.ledger.MarkRead(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "notification not found"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"marked": true})
}

func (a *API) clearNotifications(w http.ResponseWriter, r *http.Request) {
	if err := a.ledger.ClearAll(r.Context(), userIDParam(r)); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// --- справочники ---

type clientDTO struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	IsActive      bool   `json:"isActive"`
}

func (a *API) createClient(w http.ResponseWriter, r *http.Request) {
	var in clientDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	c, err := a.logistics.CreateClient(r.Context(), &models.Client{
		Name: in.Name, ContactPerson: in.ContactPerson, Phone: in.Phone,
		Email: in.Email, Address: in.Address, IsActive: true,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, clientDTO{
		ID: c.ID, Name: c.Name, ContactPerson: c.ContactPerson, Phone: c.Phone,
		Email: c.Email, Address: c.Address, IsActive: c.IsActive,
	})
}

func (a *API) updateClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var in clientDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.UpdateClient(r.Context(), &models.Client{
		ID: id, Name: in.Name, ContactPerson: in.ContactPerson, Phone: in.Phone,
		Email: in.Email, Address: in.Address, IsActive: in.IsActive,
	}); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (a *API) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.DeleteClient(r.Context(), id); err != nil {
		// Клиент с заказами не удаляется: нарушение FK.
		respondError(w, http.StatusConflict, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (a *API) listClients(w http.ResponseWriter, r *http.Request) {
	cs, err := a.logistics.ListClients(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]clientDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, clientDTO{
			ID: c.ID, Name: c.Name, ContactPerson: c.ContactPerson, Phone: c.Phone,
			Email: c.Email, Address: c.Address, IsActive: c.IsActive,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"clients": out})
}

type carrierDTO struct {
	ID            uint64 `json:"id"`
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	IsActive      bool   `json:"isActive"`
}

func (a *API) createCarrier(w http.ResponseWriter, r *http.Request) {
	var in carrierDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	c, err := a.logistics.CreateCarrier(r.Context(), &models.Carrier{
		CompanyName: in.CompanyName, ContactPerson: in.ContactPerson,
		Phone: in.Phone, Email: in.Email, IsActive: true,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, carrierDTO{
		ID: c.ID, CompanyName: c.CompanyName, ContactPerson: c.ContactPerson,
		Phone: c.Phone, Email: c.Email, IsActive: c.IsActive,
	})
}

func (a *API) updateCarrier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var in carrierDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.UpdateCarrier(r.Context(), &models.Carrier{
		ID: id, CompanyName: in.CompanyName, ContactPerson: in.ContactPerson,
		Phone: in.Phone, Email: in.Email, IsActive: in.IsActive,
	}); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (a *API) deleteCarrier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.DeleteCarrier(r.Context(), id); err != nil {
		respondError(w, http.StatusConflict, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (a *API) listCarriers(w http.ResponseWriter, r *http.Request) {
	cs, err := a.logistics.ListCarriers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]carrierDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, carrierDTO{
			ID: c.ID, CompanyName: c.CompanyName, ContactPerson: c.ContactPerson,
			Phone: c.Phone, Email: c.Email, IsActive: c.IsActive,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"carriers": out})
}

type vehicleDTO struct {
	ID          uint64  `json:"id"`
	PlateNumber string  `json:"plateNumber"`
	Model       string  `json:"model"`
	Capacity    float64 `json:"capacity"`
	CarrierID   uint64  `json:"carrierId"`
}

func (a *API) createVehicle(w http.ResponseWriter, r *http.Request) {
	var in vehicleDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	v, err := a.logistics.CreateVehicle(r.Context(), &models.Vehicle{
		PlateNumber: in.PlateNumber, Model: in.Model,
		Capacity: in.Capacity, CarrierID: in.CarrierID,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, vehicleDTO{
		ID: v.ID, PlateNumber: v.PlateNumber, Model: v.Model,
		Capacity: v.Capacity, CarrierID: v.CarrierID,
	})
}

func (a *API) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.DeleteVehicle(r.Context(), id); err != nil {
		respondError(w, http.StatusConflict, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (a *API) listVehicles(w http.ResponseWriter, r *http.Request) {
	vs, err := a.logistics.ListVehicles(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]vehicleDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, vehicleDTO{
			ID: v.ID, PlateNumber: v.PlateNumber, Model: v.Model,
			Capacity: v.Capacity, CarrierID: v.CarrierID,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"vehicles": out})
}

type driverDTO struct {
	ID            uint64  `json:"id"`
	FullName      string  `json:"fullName"`
	LicenseNumber string  `json:"licenseNumber"`
	Phone         string  `json:"phone"`
	VehicleID     *uint64 `json:"vehicleId,omitempty"`
}

func (a *API) createDriver(w http.ResponseWriter, r *http.Request) {
	var in driverDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	d, err := a.logistics.CreateDriver(r.Context(), &models.Driver{
		FullName: in.FullName, LicenseNumber: in.LicenseNumber,
		Phone: in.Phone, VehicleID: in.VehicleID,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, driverDTO{
		ID: d.ID, FullName: d.FullName, LicenseNumber: d.LicenseNumber,
		Phone: d.Phone, VehicleID: d.VehicleID,
	})
}

func (a *API) deleteDriver(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.DeleteDriver(r.Context(), id); err != nil {
		respondError(w, http.StatusConflict, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (a *API) listDrivers(w http.ResponseWriter, r *http.Request) {
	ds, err := a.logistics.ListDrivers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]driverDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, driverDTO{
			ID: d.ID, FullName: d.FullName, LicenseNumber: d.LicenseNumber,
			Phone: d.Phone, VehicleID: d.VehicleID,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"drivers": out})
}

// --- заказы ---

type orderDTO struct {
	ID               uint64  `json:"id"`
	ClientID         uint64  `json:"clientId"`
	CarrierID        uint64  `json:"carrierId"`
	VehicleID        *uint64 `json:"vehicleId,omitempty"`
	LoadingAddress   string  `json:"loadingAddress"`
	UnloadingAddress string  `json:"unloadingAddress"`
	CargoName        string  `json:"cargoName"`
	Packaging        string  `json:"packaging"`
	Weight           float64 `json:"weight"`
	LoadingType      string  `json:"loadingType"`
	OrderDate        string  `json:"orderDate"`
	LoadingDate      string  `json:"loadingDate"`
	Status           string  `json:"status"`
}

const dateLayout = "2006-01-02"

func toOrderDTO(o *models.Order) orderDTO {
	return orderDTO{
		ID: o.ID, ClientID: o.ClientID, CarrierID: o.CarrierID, VehicleID: o.VehicleID,
		LoadingAddress: o.LoadingAddress, UnloadingAddress: o.UnloadingAddress,
		CargoName: o.CargoName, Packaging: o.Packaging, Weight: o.Weight,
		LoadingType: o.LoadingType,
		OrderDate:   o.OrderDate.Format(dateLayout),
		LoadingDate: o.LoadingDate.Format(dateLayout),
		Status:      o.Status,
	}
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	var in orderDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	orderDate, err := parseDate(in.OrderDate, time.Now().UTC())
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	loadingDate, err := parseDate(in.LoadingDate, time.Time{})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	o, err := a.logistics.CreateOrder(r.Context(), models.OrderCreateInput{
		ClientID: in.ClientID, CarrierID: in.CarrierID, VehicleID: in.VehicleID,
		LoadingAddress: in.LoadingAddress, UnloadingAddress: in.UnloadingAddress,
		CargoName: in.CargoName, Packaging: in.Packaging, Weight: in.Weight,
		LoadingType: in.LoadingType, OrderDate: orderDate, LoadingDate: loadingDate,
		Status: in.Status,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderDTO(o))
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	o, err := a.logistics.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if o == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

func (a *API) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var in orderDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	orderDate, err := parseDate(in.OrderDate, time.Time{})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	loadingDate, err := parseDate(in.LoadingDate, time.Time{})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	o := &models.Order{
		ID: id, ClientID: in.ClientID, CarrierID: in.CarrierID, VehicleID: in.VehicleID,
		LoadingAddress: in.LoadingAddress, UnloadingAddress: in.UnloadingAddress,
		CargoName: in.CargoName, Packaging: in.Packaging, Weight: in.Weight,
		LoadingType: in.LoadingType, OrderDate: orderDate, LoadingDate: loadingDate,
		Status: in.Status,
	}
	if err := a.logistics.UpdateOrder(r.Context(), o); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.DeleteOrder(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.logistics.ListOrders(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": out})
}

func (a *API) orderProfit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	income, expense, profit, err := a.logistics.OrderProfit(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{
		"income": income, "expense": expense, "profit": profit,
	})
}

// --- платежи и документы ---

type paymentDTO struct {
	ID              uint64  `json:"id"`
	OrderID         uint64  `json:"orderId"`
	Amount          float64 `json:"amount"`
	PaymentDate     string  `json:"paymentDate"`
	IsClientPayment bool    `json:"isClientPayment"`
	Description     string  `json:"description"`
}

func (a *API) addOrderPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var in paymentDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	paymentDate, err := parseDate(in.PaymentDate, time.Now().UTC())
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	p, err := a.logistics.AddPayment(r.Context(), &models.Payment{
		OrderID: id, Amount: in.Amount, PaymentDate: paymentDate,
		IsClientPayment: in.IsClientPayment, Description: in.Description,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, paymentDTO{
		ID: p.ID, OrderID: p.OrderID, Amount: p.Amount,
		PaymentDate: p.PaymentDate.Format(dateLayout),
		IsClientPayment: p.IsClientPayment, Description: p.Description,
	})
}

func (a *API) listOrderPayments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	ps, err := a.logistics.ListPaymentsByOrder(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]paymentDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentDTO{
			ID: p.ID, OrderID: p.OrderID, Amount: p.Amount,
			PaymentDate: p.PaymentDate.Format(dateLayout),
			IsClientPayment: p.IsClientPayment, Description: p.Description,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"payments": out})
}

type documentDTO struct {
	ID          uint64 `json:"id"`
	OrderID     uint64 `json:"orderId"`
	Name        string `json:"name"`
	FilePath    string `json:"filePath"`
	Description string `json:"description"`
}

func (a *API) addOrderDocument(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var in documentDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	d, err := a.logistics.AddDocument(r.Context(), &models.Document{
		OrderID: id, Name: in.Name, FilePath: in.FilePath, Description: in.Description,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, documentDTO{
		ID: d.ID, OrderID: d.OrderID, Name: d.Name,
		FilePath: d.FilePath, Description: d.Description,
	})
}

func (a *API) listOrderDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	ds, err := a.logistics.ListDocumentsByOrder(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]documentDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, documentDTO{
			ID: d.ID, OrderID: d.OrderID, Name: d.Name,
			FilePath: d.FilePath, Description: d.Description,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (a *API) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.logistics.DeleteDocument(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// --- отчеты ---

func (a *API) monthlyProfitReport(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	rows, err := a.logistics.MonthlyProfitReport(r.Context(), year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"year": year, "rows": rows})
}

func (a *API) clientProfitReport(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	rows, err := a.logistics.ClientProfitReport(r.Context(), year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"year": year, "rows": rows})
}

func (a *API) carrierActivityReport(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	rows, err := a.logistics.CarrierActivityReport(r.Context(), year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"year": year, "rows": rows})
}

// --- helpers ---

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err.Error())
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func idParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

// userIDParam: user_id опционален, по умолчанию единственный пользователь.
func userIDParam(r *http.Request) uint64 {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return models.DefaultUserID
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return models.DefaultUserID
	}
	return id
}

func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().UTC().Year(), nil
	}
	return strconv.Atoi(raw)
}

func parseDate(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(dateLayout, raw)
}
