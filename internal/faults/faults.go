// Package faults — единая таксономия ошибок ядра.
// Правило из дизайна: "не найдено" и "чужой арендатор" наружу
// неразличимы (ErrNotFoundOrForbidden), чтобы по ответу нельзя было
// выяснить существование чужих записей.
package faults

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuthentication — нет/просрочен/битый токен.
	ErrAuthentication = errors.New("authentication required")
	// ErrNotFoundOrForbidden — записи нет либо она чужая; не различаем.
	ErrNotFoundOrForbidden = errors.New("not found")
	// ErrConflict — дубликат (например, SIRET уже занят).
	ErrConflict = errors.New("conflict")
	// ErrIdentityIntegrity — у сотрудника SIRET, за которым больше
	// не стоит живой admin_client.
	ErrIdentityIntegrity = errors.New("identity integrity violation")
)

// Validation — ошибка входных данных с пополевой детализацией.
type Validation struct {
	Fields map[string]string
}

func NewValidation(field, msg string) *Validation {
	return &Validation{Fields: map[string]string{field: msg}}
}

func (e *Validation) Add(field, msg string) *Validation {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
	return e
}

func (e *Validation) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Dependency оборачивает отказ внешней зависимости (БД, blob-бэкенд).
// Ядро само не ретраит — это забота инфраструктуры вызывающего.
type DependencyError struct {
	Op  string
	Err error
}

func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DependencyError{Op: op, Err: err}
}

func (e *DependencyError) Error() string { return fmt.Sprintf("dependency %s: %v", e.Op, e.Err) }
func (e *DependencyError) Unwrap() error { return e.Err }

// PartialRun — агрегат пофайловых (по-арендаторных) сбоев батч-прогона.
// Не фатален: прогон продолжается, сбои копятся сюда.
type PartialRun struct {
	Failures map[string]error // SIRET → причина
}

func (e *PartialRun) Add(siret string, err error) {
	if e.Failures == nil {
		e.Failures = map[string]error{}
	}
	e.Failures[siret] = err
}

func (e *PartialRun) Empty() bool { return len(e.Failures) == 0 }

func (e *PartialRun) Error() string {
	keys := make([]string, 0, len(e.Failures))
	for k := range e.Failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, e.Failures[k]))
	}
	return fmt.Sprintf("partial run, %d tenant(s) failed: %s", len(keys), strings.Join(parts, "; "))
}

// Known — ошибка уже классифицирована таксономией.
func Known(err error) bool {
	if errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrNotFoundOrForbidden) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrIdentityIntegrity) {
		return true
	}
	var v *Validation
	if errors.As(err, &v) {
		return true
	}
	var d *DependencyError
	if errors.As(err, &d) {
		return true
	}
	var p *PartialRun
	return errors.As(err, &p)
}

// WrapDB помечает неклассифицированную ошибку как отказ зависимости;
// ошибки таксономии проходят без обёртки.
func WrapDB(op string, err error) error {
	if err == nil || Known(err) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}
