package logistics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/murphylog/freightdesk/internal/models"
	"github.com/murphylog/freightdesk/internal/storage/pglogistics"
)

type Repository interface {
	CreateClient(ctx context.Context, c *models.Client) (*models.Client, error)
	GetClient(ctx context.Context, id uint64) (*models.Client, error)
	UpdateClient(ctx context.Context, c *models.Client) error
	ListClients(ctx context.Context) ([]*models.Client, error)
	DeleteClient(ctx context.Context, id uint64) error
	CreateCarrier(ctx context.Context, c *models.Carrier) (*models.Carrier, error)
	GetCarrier(ctx context.Context, id uint64) (*models.Carrier, error)
	UpdateCarrier(ctx context.Context, c *models.Carrier) error
	ListCarriers(ctx context.Context) ([]*models.Carrier, error)
	DeleteCarrier(ctx context.Context, id uint64) error
	CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uint64) error
	CreateDriver(ctx context.Context, d *models.Driver) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]*models.Driver, error)
	DeleteDriver(ctx context.Context, id uint64) error

	CreateOrder(ctx context.Context, in models.OrderCreateInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uint64) (*models.Order, error)
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, id uint64) error
	ListOrders(ctx context.Context) ([]*models.Order, error)

	AddPayment(ctx context.Context, p *models.Payment) (*models.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderID uint64) ([]*models.Payment, error)
	OrderProfit(ctx context.Context, orderID uint64) (income, expense float64, err error)

	AddDocument(ctx context.Context, d *models.Document) (*models.Document, error)
	GetDocument(ctx context.Context, id uint64) (*models.Document, error)
	DeleteDocument(ctx context.Context, id uint64) error
	ListDocumentsByOrder(ctx context.Context, orderID uint64) ([]*models.Document, error)

	MonthlyProfitReport(ctx context.Context, year int) ([]pglogistics.MonthlyProfitRow, error)
	ClientProfitReport(ctx context.Context, year int) ([]pglogistics.ClientProfitRow, error)
	CarrierActivityReport(ctx context.Context, year int) ([]pglogistics.CarrierActivityRow, error)
}

// Notifier — журнал уведомлений. Уведомления по CRUD-операциям пишутся
// по принципу «лучшее усилие»: сбой журнала не откатывает саму операцию.
type Notifier interface {
	Create(ctx context.Context, message, typ string, relatedID, userID uint64) (*models.Notification, error)
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func New(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) notify(ctx context.Context, message, typ string, relatedID uint64) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Create(ctx, message, typ, relatedID, models.DefaultUserID); err != nil {
		slog.Warn("create notification", "type", typ, "related_id", relatedID, "error", err.Error())
	}
}

// --- справочники ---

func (s *Service) CreateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	if c.Name == "" {
		return nil, errors.New("client name is required")
	}
	created, err := s.repo.CreateClient(ctx, c)
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}
	s.notify(ctx, fmt.Sprintf("Клиент '%s' добавлен", created.Name), models.NotificationTypeClient, created.ID)
	return created, nil
}

func (s *Service) UpdateClient(ctx context.Context, c *models.Client) error {
	if c.Name == "" {
		return errors.New("client name is required")
	}
	prev, err := s.repo.GetClient(ctx, c.ID)
	if err != nil {
		return errors.Wrap(err, "load client")
	}
	if prev == nil {
		return errors.Errorf("client %d not found", c.ID)
	}
	if err := s.repo.UpdateClient(ctx, c); err != nil {
		return errors.Wrap(err, "update client")
	}
	s.notify(ctx, fmt.Sprintf("Клиент '%s' обновлен", c.Name), models.NotificationTypeClient, c.ID)
	return nil
}

func (s *Service) ListClients(ctx context.Context) ([]*models.Client, error) {
	return s.repo.ListClients(ctx)
}

// DeleteClient падает ошибкой FK, если на клиента ещё ссылаются заказы.
func (s *Service) DeleteClient(ctx context.Context, id uint64) error {
	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return errors.Wrap(err, "load client")
	}
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return err
	}
	if c != nil {
		s.notify(ctx, fmt.Sprintf("Клиент '%s' удален", c.Name), models.NotificationTypeClient, id)
	}
	return nil
}

func (s *Service) CreateCarrier(ctx context.Context, c *models.Carrier) (*models.Carrier, error) {
	if c.CompanyName == "" {
		return nil, errors.New("carrier company name is required")
	}
	created, err := s.repo.CreateCarrier(ctx, c)
	if err != nil {
		return nil, errors.Wrap(err, "create carrier")
	}
	s.notify(ctx, fmt.Sprintf("Перевозчик '%s' добавлен", created.CompanyName), models.NotificationTypeCarrier, created.ID)
	return created, nil
}

func (s *Service) UpdateCarrier(ctx context.Context, c *models.Carrier) error {
	if c.CompanyName == "" {
		return errors.New("carrier company name is required")
	}
	prev, err := s.repo.GetCarrier(ctx, c.ID)
	if err != nil {
		return errors.Wrap(err, "load carrier")
	}
	if prev == nil {
		return errors.Errorf("carrier %d not found", c.ID)
	}
	if err := s.repo.UpdateCarrier(ctx, c); err != nil {
		return errors.Wrap(err, "update carrier")
	}
	s.notify(ctx, fmt.Sprintf("Перевозчик '%s' обновлен", c.CompanyName), models.NotificationTypeCarrier, c.ID)
	return nil
}

func (s *Service) ListCarriers(ctx context.Context) ([]*models.Carrier, error) {
	return s.repo.ListCarriers(ctx)
}

func (s *Service) DeleteCarrier(ctx context.Context, id uint64) error {
	c, err := s.repo.GetCarrier(ctx, id)
	if err != nil {
		return errors.Wrap(err, "load carrier")
	}
	if err := s.repo.DeleteCarrier(ctx, id); err != nil {
		return err
	}
	if c != nil {
		s.notify(ctx, fmt.Sprintf("Перевозчик '%s' удален", c.CompanyName), models.NotificationTypeCarrier, id)
	}
	return nil
}

func (s *Service) CreateVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	if v.PlateNumber == "" {
		return nil, errors.New("vehicle plate number is required")
	}
	created, err := s.repo.CreateVehicle(ctx, v)
	if err != nil {
		return nil, errors.Wrap(err, "create vehicle")
	}
	return created, nil
}

func (s *Service) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	return s.repo.ListVehicles(ctx)
}

func (s *Service) DeleteVehicle(ctx context.Context, id uint64) error {
	return s.repo.DeleteVehicle(ctx, id)
}

func (s *Service) CreateDriver(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	if d.FullName == "" {
		return nil, errors.New("driver full name is required")
	}
	created, err := s.repo.CreateDriver(ctx, d)
	if err != nil {
		return nil, errors.Wrap(err, "create driver")
	}
	return created, nil
}

func (s *Service) ListDrivers(ctx context.Context) ([]*models.Driver, error) {
	return s.repo.ListDrivers(ctx)
}

func (s *Service) DeleteDriver(ctx context.Context, id uint64) error {
	return s.repo.DeleteDriver(ctx, id)
}

// --- заказы ---

func (s *Service) CreateOrder(ctx context.Context, in models.OrderCreateInput) (*models.Order, error) {
	if in.ClientID == 0 || in.CarrierID == 0 {
		return nil, errors.New("order requires client and carrier")
	}
	if in.CargoName == "" {
		return nil, errors.New("cargo name is required")
	}
	created, err := s.repo.CreateOrder(ctx, in)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	s.notify(ctx, fmt.Sprintf("Заказ #%d создан: %s", created.ID, created.CargoName), models.NotificationTypeOrder, created.ID)
	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// UpdateOrder пишет уведомление на каждое сохранение, не только на смену статуса.
func (s *Service) UpdateOrder(ctx context.Context, o *models.Order) error {
	prev, err := s.repo.GetOrder(ctx, o.ID)
	if err != nil {
		return errors.Wrap(err, "load order")
	}
	if prev == nil {
		return errors.Errorf("order %d not found", o.ID)
	}
	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return errors.Wrap(err, "update order")
	}
	s.notify(ctx, fmt.Sprintf("Заказ #%d обновлен: %s", o.ID, o.CargoName), models.NotificationTypeOrder, o.ID)
	return nil
}

func (s *Service) DeleteOrder(ctx context.Context, id uint64) error {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return errors.Wrap(err, "load order")
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	if o != nil {
		s.notify(ctx, fmt.Sprintf("Заказ #%d удален: %s", id, o.CargoName), models.NotificationTypeOrder, id)
	}
	return nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return s.repo.ListOrders(ctx)
}

// --- платежи и документы ---

func (s *Service) AddPayment(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	if p.OrderID == 0 {
		return nil, errors.New("payment requires order")
	}
	if p.Amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now().UTC()
	}
	created, err := s.repo.AddPayment(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "add payment")
	}
	direction := "перевозчику"
	if created.IsClientPayment {
		direction = "от клиента"
	}
	s.notify(ctx,
		fmt.Sprintf("Платеж %.2f руб. (%s) по заказу #%d", created.Amount, direction, created.OrderID),
		models.NotificationTypePayment, created.OrderID)
	return created, nil
}

func (s *Service) ListPaymentsByOrder(ctx context.Context, orderID uint64) ([]*models.Payment, error) {
	return s.repo.ListPaymentsByOrder(ctx, orderID)
}

// OrderProfit возвращает доход, расход и прибыль по заказу.
func (s *Service) OrderProfit(ctx context.Context, orderID uint64) (income, expense, profit float64, err error) {
	income, expense, err = s.repo.OrderProfit(ctx, orderID)
	if err != nil {
		return 0, 0, 0, errors.Wrap(err, "order profit")
	}
	return income, expense, income - expense, nil
}

func (s *Service) AddDocument(ctx context.Context, d *models.Document) (*models.Document, error) {
	if d.OrderID == 0 {
		return nil, errors.New("document requires order")
	}
	if d.Name == "" {
		return nil, errors.New("document name is required")
	}
	created, err := s.repo.AddDocument(ctx, d)
	if err != nil {
		return nil, errors.Wrap(err, "add document")
	}
	s.notify(ctx, fmt.Sprintf("Документ '%s' добавлен к заказу #%d", created.Name, created.OrderID), models.NotificationTypeDocument, created.OrderID)
	return created, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id uint64) error {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return errors.Wrap(err, "load document")
	}
	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if d != nil {
		s.notify(ctx, fmt.Sprintf("Документ '%s' удален из заказа #%d", d.Name, d.OrderID), models.NotificationTypeDocument, d.OrderID)
	}
	return nil
}

func (s *Service) ListDocumentsByOrder(ctx context.Context, orderID uint64) ([]*models.Document, error) {
	return s.repo.ListDocumentsByOrder(ctx, orderID)
}

// --- отчеты ---

func (s *Service) MonthlyProfitReport(ctx context.Context, year int) ([]pglogistics.MonthlyProfitRow, error) {
	return s.repo.MonthlyProfitReport(ctx, year)
}

func (s *Service) ClientProfitReport(ctx context.Context, year int) ([]pglogistics.ClientProfitRow, error) {
	return s.repo.ClientProfitReport(ctx, year)
}

func (s *Service) CarrierActivityReport(ctx context.Context, year int) ([]pglogistics.CarrierActivityRow, error) {
	return s.repo.CarrierActivityReport(ctx, year)
}
