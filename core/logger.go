package core

// Logger is implemented by services/logger.
// expected args fmt: error | map[string]interface{} | Person
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the signed-in user attached to log entries.
type Person struct {
	ID       string
	Username string
	Email    string
}
