package journal

import "errors"

var (
	// ErrExport возвращается при ошибке выгрузки журнала
	ErrExport = errors.New("service.journal: failed to export records")
)
