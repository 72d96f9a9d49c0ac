// Package notify доставляет админам уведомления о событиях магазина.
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/atom-point/internal/service"
)

const (
	defaultQueueSize              = 256
	defaultWorkers           uint = 2
	defaultDeliveryTimeout        = 3 * time.Second
)

// Dispatcher асинхронный service.Notifier. NotifyAdmins кладет сообщение во внутреннюю
// очередь и сразу возвращается; воркеры дописывают сообщение в нотификации всех админов
// и публикуют событие в redis stream. Потеря сообщения при переполнении очереди
// допустима: уведомления не входят в транзакционные гарантии заказа.
type Dispatcher struct {
	userRepo  service.UserRepository
	publisher *Publisher
	l         *logrus.Entry
	queue     chan string
	workers   uint
}

// New создает диспетчер. publisher может быть nil - тогда события в redis не публикуются,
// а уведомления пишутся только в хранилище (локальный режим без редиса).
func New(userRepo service.UserRepository, publisher *Publisher, l *logrus.Logger) *Dispatcher {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "notify",
		"module":    "dispatcher",
	})

	return &Dispatcher{
		userRepo:  userRepo,
		publisher: publisher,
		l:         loggerEntry,
		queue:     make(chan string, defaultQueueSize),
		workers:   defaultWorkers,
	}
}

// SetWorkers устанавливает кол-во воркеров доставки.
func (d *Dispatcher) SetWorkers(workers uint) *Dispatcher {
	if workers > 0 {
		d.workers = workers
	}
	return d
}

// NotifyAdmins ставит сообщение в очередь доставки. Не блокируется: при переполнении
// очереди сообщение отбрасывается с записью в лог.
func (d *Dispatcher) NotifyAdmins(_ context.Context, message string) {
	select {
	case d.queue <- message:
	default:
		d.l.WithField("message", message).Warn("notification queue is full, dropping")
	}
}

// Run запускает воркеров доставки и блокируется до отмены контекста.
func (d *Dispatcher) Run(ctx context.Context) {
	d.l.WithField("workers", d.workers).Info("Starting")

	done := make(chan struct{})
	for i := uint(0); i < d.workers; i++ {
		go d.worker(ctx, i+1, done)
	}
	for i := uint(0); i < d.workers; i++ {
		<-done
	}
	d.l.Info("Got stop signal, exiting...")
}

func (d *Dispatcher) worker(ctx context.Context, workerID uint, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	for {
		select {
		case <-ctx.Done():
			return
		case message := <-d.queue:
			d.deliver(ctx, workerID, message)
		}
	}
}

// deliver дописывает сообщение всем админам и публикует событие в стрим.
func (d *Dispatcher) deliver(ctx context.Context, workerID uint, message string) {
	l := d.l.WithFields(logrus.Fields{
		"worker":  workerID,
		"message": message,
	})

	reqCtx, cancel := context.WithTimeout(ctx, defaultDeliveryTimeout)
	defer cancel()

	admins, adminsErr := d.userRepo.ListAdmins(reqCtx)
	if adminsErr != nil {
		l.WithError(adminsErr).Error("listing admins")
		return
	}
	for _, admin := range admins {
		if appendErr := d.userRepo.AppendNotification(reqCtx, admin.ID, message); appendErr != nil {
			l.WithError(appendErr).WithField("adminID", admin.ID).Error("appending notification")
		}
	}

	if d.publisher != nil {
		event := AdminNoticeEvent{Message: message}
		if pubErr := d.publisher.Publish(reqCtx, AdminEventsStream, AdminNotice, event); pubErr != nil {
			l.WithError(pubErr).Error("publishing admin notice")
		}
	}
}
