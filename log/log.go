package log

import "go.uber.org/zap"

// Logger is replaced by Init; the no-op default keeps packages usable in tests.
var Logger = zap.NewNop()

func Init(production bool) {
	var err error
	if production {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		Logger = zap.NewNop()
	}
}

func Sync() {
	_ = Logger.Sync()
}
