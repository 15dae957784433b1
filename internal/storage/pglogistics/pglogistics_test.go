package pglogistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/murphylog/freightdesk/internal/models"
)

func startPG(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "admin",
			"POSTGRES_PASSWORD": "admin",
			"POSTGRES_DB":       "freightdesk_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := "postgres://admin:admin@" + host + ":" + port.Port() + "/freightdesk_test?sslmode=disable"
	st, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func day(t *testing.T, base time.Time, offsetDays int) time.Time {
	t.Helper()
	d := base.AddDate(0, 0, offsetDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func TestPGLogistics_Flow(t *testing.T) {
	st := startPG(t)
	ctx := context.Background()
	today := day(t, time.Now().UTC(), 0)

	client, err := st.CreateClient(ctx, &models.Client{Name: "ООО Ромашка", IsActive: true})
	require.NoError(t, err)
	require.NotZero(t, client.ID)

	client.Phone = "+7 495 000-00-00"
	require.NoError(t, st.UpdateClient(ctx, client))
	gotClient, err := st.GetClient(ctx, client.ID)
	require.NoError(t, err)
	require.Equal(t, "+7 495 000-00-00", gotClient.Phone)

	noClient, err := st.GetClient(ctx, client.ID+1000)
	require.NoError(t, err)
	require.Nil(t, noClient)

	carrier, err := st.CreateCarrier(ctx, &models.Carrier{CompanyName: "ТрансЛог", IsActive: true})
	require.NoError(t, err)

	carrier.ContactPerson = "Петров П.П."
	require.NoError(t, st.UpdateCarrier(ctx, carrier))
	gotCarrier, err := st.GetCarrier(ctx, carrier.ID)
	require.NoError(t, err)
	require.Equal(t, "Петров П.П.", gotCarrier.ContactPerson)

	vehicle, err := st.CreateVehicle(ctx, &models.Vehicle{PlateNumber: "А123ВС", Model: "КамАЗ", Capacity: 20, CarrierID: carrier.ID})
	require.NoError(t, err)

	_, err = st.CreateDriver(ctx, &models.Driver{FullName: "Иванов И.И.", VehicleID: &vehicle.ID})
	require.NoError(t, err)

	order, err := st.CreateOrder(ctx, models.OrderCreateInput{
		ClientID:         client.ID,
		CarrierID:        carrier.ID,
		VehicleID:        &vehicle.ID,
		LoadingAddress:   "Москва",
		UnloadingAddress: "Казань",
		CargoName:        "Кирпич",
		Weight:           12.5,
		OrderDate:        today,
		LoadingDate:      day(t, today, 1),
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCreated, order.Status)

	got, err := st.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, "Кирпич", got.CargoName)

	missing, err := st.GetOrder(ctx, order.ID+1000)
	require.NoError(t, err)
	require.Nil(t, missing)

	// Профит заказа: 1000 от клиента - 700 перевозчику.
	_, err = st.AddPayment(ctx, &models.Payment{OrderID: order.ID, Amount: 1000, PaymentDate: today, IsClientPayment: true})
	require.NoError(t, err)
	_, err = st.AddPayment(ctx, &models.Payment{OrderID: order.ID, Amount: 700, PaymentDate: today, IsClientPayment: false})
	require.NoError(t, err)

	income, expense, err := st.OrderProfit(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, float64(1000), income)
	require.Equal(t, float64(700), expense)

	payments, err := st.ListPaymentsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	doc, err := st.AddDocument(ctx, &models.Document{OrderID: order.ID, Name: "ТТН", FilePath: "/tmp/ttn.pdf"})
	require.NoError(t, err)
	extra, err := st.AddDocument(ctx, &models.Document{OrderID: order.ID, Name: "Счет"})
	require.NoError(t, err)

	gotDoc, err := st.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "ТТН", gotDoc.Name)

	require.NoError(t, st.DeleteDocument(ctx, extra.ID))
	noDoc, err := st.GetDocument(ctx, extra.ID)
	require.NoError(t, err)
	require.Nil(t, noDoc)

	docs, err := st.ListDocumentsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// Каскад: удаление заказа уносит платежи и документы.
	require.NoError(t, st.DeleteOrder(ctx, order.ID))
	payments, err = st.ListPaymentsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, payments)
	docs, err = st.ListDocumentsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestPGLogistics_OverduePaymentsBoundary(t *testing.T) {
	st := startPG(t)
	ctx := context.Background()
	today := day(t, time.Now().UTC(), 0)

	client, err := st.CreateClient(ctx, &models.Client{Name: "К", IsActive: true})
	require.NoError(t, err)
	carrier, err := st.CreateCarrier(ctx, &models.Carrier{CompanyName: "П", IsActive: true})
	require.NoError(t, err)

	newOrder := func(status string) *models.Order {
		o, err := st.CreateOrder(ctx, models.OrderCreateInput{
			ClientID:         client.ID,
			CarrierID:        carrier.ID,
			LoadingAddress:   "A",
			UnloadingAddress: "B",
			OrderDate:        today,
			LoadingDate:      today,
			Status:           status,
		})
		require.NoError(t, err)
		return o
	}

	inTransit := newOrder(models.OrderStatusInTransit)
	completed := newOrder(models.OrderStatusCompleted)

	addPayment := func(orderID uint64, offsetDays int, fromClient bool) {
		_, err := st.AddPayment(ctx, &models.Payment{
			OrderID:         orderID,
			Amount:          5000,
			PaymentDate:     day(t, today, offsetDays),
			IsClientPayment: fromClient,
		})
		require.NoError(t, err)
	}

	addPayment(inTransit.ID, -4, true)  // просрочен
	addPayment(inTransit.ID, -3, true)  // ровно на границе — не просрочен
	addPayment(inTransit.ID, -2, true)  // не просрочен
	addPayment(inTransit.ID, -10, false) // перевозчику — не участвует
	addPayment(completed.ID, -10, true)  // закрытый заказ — не участвует

	cutoff := day(t, today, -3)
	overdue, err := st.ListOverdueClientPayments(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, inTransit.ID, overdue[0].OrderID)
	require.Equal(t, float64(5000), overdue[0].Amount)
	require.Equal(t, models.OrderStatusInTransit, overdue[0].OrderStatus)
}

func TestPGLogistics_UpcomingLoadings(t *testing.T) {
	st := startPG(t)
	ctx := context.Background()
	today := day(t, time.Now().UTC(), 0)
	tomorrow := day(t, today, 1)

	client, err := st.CreateClient(ctx, &models.Client{Name: "К", IsActive: true})
	require.NoError(t, err)
	carrier, err := st.CreateCarrier(ctx, &models.Carrier{CompanyName: "П", IsActive: true})
	require.NoError(t, err)

	newOrder := func(loading time.Time, status string) *models.Order {
		o, err := st.CreateOrder(ctx, models.OrderCreateInput{
			ClientID:         client.ID,
			CarrierID:        carrier.ID,
			LoadingAddress:   "A",
			UnloadingAddress: "B",
			OrderDate:        today,
			LoadingDate:      loading,
			Status:           status,
		})
		require.NoError(t, err)
		return o
	}

	want := newOrder(tomorrow, models.OrderStatusCreated)
	newOrder(tomorrow, models.OrderStatusCompleted) // закрыт — не попадает
	newOrder(today, models.OrderStatusCreated)      // не завтра — не попадает
	newOrder(day(t, today, 2), models.OrderStatusProcessing)

	got, err := st.ListUpcomingLoadings(ctx, tomorrow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, want.ID, got[0].ID)
}

func TestPGLogistics_Notifications(t *testing.T) {
	st := startPG(t)
	ctx := context.Background()

	n1, err := st.CreateNotification(ctx, 0, "Заказ #1 создан: Кирпич", models.NotificationTypeOrder, 1)
	require.NoError(t, err)
	require.NotZero(t, n1.ID)
	require.False(t, n1.IsRead)
	require.False(t, n1.CreatedAt.IsZero())

	n2, err := st.CreateNotification(ctx, 0, "Просрочен платеж по заказу #1 (5000.00 руб.)", models.NotificationTypePayment, 1)
	require.NoError(t, err)

	unread, err := st.ListUnreadNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	// Свежие сверху.
	require.Equal(t, n2.ID, unread[0].ID)
	for _, n := range unread {
		require.False(t, n.IsRead)
	}

	cnt, err := st.CountUnreadNotifications(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), cnt)

	// mark_read идемпотентен.
	ok, err := st.MarkNotificationRead(ctx, n1.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = st.MarkNotificationRead(ctx, n1.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.MarkNotificationRead(ctx, n1.ID+1000)
	require.NoError(t, err)
	require.False(t, ok)

	unread, err = st.ListUnreadNotifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, n2.ID, unread[0].ID)

	require.NoError(t, st.ClearNotifications(ctx, 0))
	unread, err = st.ListUnreadNotifications(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, unread)
	cnt, err = st.CountUnreadNotifications(ctx, 0)
	require.NoError(t, err)
	require.Zero(t, cnt)
}

func TestPGLogistics_Reports(t *testing.T) {
	st := startPG(t)
	ctx := context.Background()
	year := time.Now().UTC().Year()
	jan := time.Date(year, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(year, 2, 10, 0, 0, 0, 0, time.UTC)

	client, err := st.CreateClient(ctx, &models.Client{Name: "К", IsActive: true})
	require.NoError(t, err)
	carrier, err := st.CreateCarrier(ctx, &models.Carrier{CompanyName: "П", IsActive: true})
	require.NoError(t, err)

	order, err := st.CreateOrder(ctx, models.OrderCreateInput{
		ClientID:         client.ID,
		CarrierID:        carrier.ID,
		LoadingAddress:   "A",
		UnloadingAddress: "B",
		OrderDate:        jan,
		LoadingDate:      jan,
	})
	require.NoError(t, err)

	pay := func(date time.Time, amount float64, fromClient bool) {
		_, err := st.AddPayment(ctx, &models.Payment{OrderID: order.ID, Amount: amount, PaymentDate: date, IsClientPayment: fromClient})
		require.NoError(t, err)
	}
	pay(jan, 1000, true)
	pay(jan, 400, false)
	pay(feb, 2000, true)

	monthly, err := st.MonthlyProfitReport(ctx, year)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	require.Equal(t, 1, monthly[0].Month)
	require.Equal(t, float64(600), monthly[0].Profit)
	require.Equal(t, float64(2000), monthly[1].Profit)

	byClient, err := st.ClientProfitReport(ctx, year)
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	require.Equal(t, "К", byClient[0].ClientName)
	require.Equal(t, float64(2600), byClient[0].Profit)

	activity, err := st.CarrierActivityReport(ctx, year)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	require.Equal(t, int64(1), activity[0].OrderCount)
	require.Equal(t, float64(400), activity[0].TotalPaid)
}
