// Package watchdog — ежедневная проверка соблюдения: у каждого
// заведения за день должен быть хотя бы один замер температуры.
// Нет ни одного — ровно один алерт на (арендатор, день).
package watchdog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hygio/internal/faults"
	"hygio/internal/logs"
	"hygio/internal/models"
	"hygio/internal/repo"
)

type Watchdog struct {
	idents *repo.IdentityStore
	temps  *repo.TemperatureStore
	alerts *repo.AlertStore

	loc  *time.Location
	hour int // локальный час запуска; проверяется предыдущий день

	stopCh chan struct{}
}

func New(idents *repo.IdentityStore, temps *repo.TemperatureStore, alerts *repo.AlertStore, loc *time.Location, hour int) *Watchdog {
	if loc == nil {
		loc = time.UTC
	}
	return &Watchdog{
		idents: idents,
		temps:  temps,
		alerts: alerts,
		loc:    loc,
		hour:   hour,
		stopCh: make(chan struct{}),
	}
}

// Report — итог одного прогона.
type Report struct {
	Day     string
	Checked int // арендаторов обойдено
	Alerted int // алертов создано этим прогоном
	Skipped int // замер был либо алерт уже существовал
}

// RunDailyCheck обходит всех арендаторов с живым admin_client и для
// каждого проверяет окно [00:00, 24:00) дня day в зоне loc. Сбой
// одного арендатора не роняет прогон: копится в PartialRun, обход
// продолжается. Прогон без состояния — повторный запуск безопасен.
func (w *Watchdog) RunDailyCheck(ctx context.Context, day time.Time) (*Report, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, w.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	dayKey := dayStart.Format("2006-01-02")

	sirets, err := w.idents.ListAdminSirets(ctx)
	if err != nil {
		return nil, faults.WrapDB("tenant enumeration", err)
	}

	rep := &Report{Day: dayKey}
	partial := &faults.PartialRun{}

	for _, siret := range sirets {
		rep.Checked++
		created, err := w.checkTenant(ctx, siret, dayStart, dayEnd, dayKey)
		if err != nil {
			partial.Add(siret, err)
			logs.Logger.Errorf("compliance check failed siret=%s day=%s: %v", siret, dayKey, err)
			continue
		}
		if created {
			rep.Alerted++
		} else {
			rep.Skipped++
		}
	}

	if !partial.Empty() {
		return rep, partial
	}
	return rep, nil
}

// checkTenant — один арендатор, короткие отдельные запросы: обход
// может быть длинным, держать соединение на весь цикл нельзя.
func (w *Watchdog) checkTenant(ctx context.Context, siret string, from, to time.Time, dayKey string) (created bool, err error) {
	n, err := w.temps.CountInWindow(ctx, siret, from, to)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	// предварительная проверка — чтобы повторный прогон не шумел
	exists, err := w.alerts.ExistsForDay(ctx, siret, dayKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	a := &models.Alert{
		UUID:        uuid.NewString(),
		TenantSiret: siret,
		Day:         dayKey,
		Message:     fmt.Sprintf("no temperature readings recorded for %s on %s", siret, dayKey),
		Status:      models.AlertStatusNew,
	}
	if err := w.alerts.Create(ctx, a); err != nil {
		// гонка двух прогонов: уникальный (tenant, day) — источник
		// истины, дубль вставки значит "уже есть", не ошибка
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Start — таймер: раз в сутки в hour часов локальной зоны проверяем
// предыдущий календарный день (он уже закрыт целиком).
func (w *Watchdog) Start() {
	go func() {
		for {
			next := w.nextFire(time.Now().In(w.loc))
			timer := time.NewTimer(time.Until(next))
			select {
			case <-timer.C:
				day := time.Now().In(w.loc).AddDate(0, 0, -1)
				rep, err := w.RunDailyCheck(context.Background(), day)
				if err != nil {
					logs.Logger.Errorf("daily compliance run finished with failures: %v", err)
				}
				if rep != nil {
					logs.Logger.Infof("daily compliance run day=%s checked=%d alerted=%d skipped=%d",
						rep.Day, rep.Checked, rep.Alerted, rep.Skipped)
				}
			case <-w.stopCh:
				timer.Stop()
				logs.Logger.Info("watchdog stopped")
				return
			}
		}
	}()
}

func (w *Watchdog) Stop() { close(w.stopCh) }

func (w *Watchdog) nextFire(now time.Time) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), w.hour, 0, 0, 0, w.loc)
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}
