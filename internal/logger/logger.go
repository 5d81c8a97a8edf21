package logger

import "go.uber.org/zap"

// New builds the process logger. "local" keeps console output readable while
// developing; anything else logs production JSON.
func New(env string) *zap.Logger {
	if env == "local" || env == "dev" {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return l
	}

	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}
