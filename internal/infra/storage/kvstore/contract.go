package kvstore

import (
	"github.com/m04kA/SMC-RelayBot/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
