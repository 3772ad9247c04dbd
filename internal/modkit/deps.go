package modkit

import (
	"seqfeat/internal/platform/config"
	"seqfeat/internal/platform/logger"
	"seqfeat/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// storage seams are nil when the backend is not configured
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
	CH  store.Clickhouse
}

// DepsFrom builds Deps over an opened store; a nil store leaves both seams nil
func DepsFrom(cfg config.Conf, s *store.Store) Deps {
	d := Deps{Log: *logger.Get(), Cfg: cfg}
	if s != nil {
		d.PG, d.CH = s.PG, s.CH
	}
	return d
}
