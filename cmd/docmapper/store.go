package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docmapper/internal/config"
	"docmapper/storage"
	"docmapper/storage/boltstore"
	"docmapper/storage/memstore"
	"docmapper/storage/sqlitestore"
)

// openStore opens the configured document store.
func openStore(a *app) (storage.Store, error) {
	a.log.Debug("opening store", zap.String("store", a.cfg.Store), zap.String("path", a.cfg.StorePath))

	switch strings.ToLower(a.cfg.Store) {
	case config.StoreMemory:
		return memstore.New(), nil
	case config.StoreBolt:
		return boltstore.Open(a.cfg.StorePath)
	case config.StoreSQLite:
		return sqlitestore.Open(a.cfg.StorePath)
	default:
		return nil, fmt.Errorf("unknown store %q", a.cfg.Store)
	}
}
