package journal

// Logger интерфейс для логирования
// Каждая запись журнала дублируется в лог процесса
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
