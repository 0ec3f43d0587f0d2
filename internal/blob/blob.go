// Package blob — внешнее хранилище байтов медиа-записей.
// Ядро оперирует только непрозрачной ссылкой ref; содержимое файлов
// оно не интерпретирует.
package blob

import (
	"context"
	"errors"
	"fmt"

	"hygio/config"
)

// ErrNotFound — по ссылке ничего нет.
var ErrNotFound = errors.New("blob not found")

// Store — контракт blob-хранилища. Delete — best effort: осиротевший
// blob — меньшее зло, чем заблокированное удаление метаданных, поэтому
// отказ удаления только логируется вызывающим.
type Store interface {
	Put(ctx context.Context, data []byte, contentType, name string) (ref string, err error)
	Open(ctx context.Context, ref string) ([]byte, string, error)
	Delete(ctx context.Context, ref string) error
}

// New выбирает реализацию по конфигу.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Blob.Driver {
	case "fs":
		return NewFilesystem(cfg.Blob.Dir)
	case "s3":
		return NewS3(ctx, cfg.Blob.Bucket, cfg.Blob.Region, cfg.Blob.KeyPrefix)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Blob.Driver)
	}
}
