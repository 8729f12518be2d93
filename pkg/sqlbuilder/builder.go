package sqlbuilder

import "github.com/Masterminds/squirrel"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ForDriver возвращает построитель squirrel с плейсхолдерами под драйвер
// postgres использует $1, $2, ...; sqlite - ?
func ForDriver(driver string) squirrel.StatementBuilderType {
	if driver == DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// IsSupported проверяет, что драйвер поддерживается хранилищем
func IsSupported(driver string) bool {
	return driver == DriverSQLite || driver == DriverPostgres
}
