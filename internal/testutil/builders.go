package testutil

import "github.com/ksotala/keydi"

// BuildAppContainer assembles the standard fixture wiring used by the
// integration tests: config, logger, database and user service.
func BuildAppContainer(dsn string) *keydi.Container {
	return keydi.New().
		MustProvide(keydi.NewValue("cfg", &Config{DSN: dsn})).
		MustProvide(keydi.MustFactory("logger", nil, func() Logger { return NewMemoryLogger() })).
		MustProvide(keydi.MustFactory("db", []keydi.Key{"cfg"}, NewDatabase)).
		MustProvide(keydi.MustFactory("users", []keydi.Key{"db", "logger"}, NewUserService))
}
