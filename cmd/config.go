package main

import "time"

type Config struct {
	ServerURL      string        `env:"SERVER_URL,default=http://localhost:8080"`
	APIPrefix      string        `env:"API_PREFIX,default=/api"`
	APIFlavor      string        `env:"API_FLAVOR,default=standard"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	MaxUploadSize  int64         `env:"MAX_UPLOAD_SIZE"`
	StaleWindow    time.Duration `env:"STALE_WINDOW,default=5m"`
	BadgerFilepath string        `env:"BADGER_FILEPATH,default=.filedrop/state"`
	PreviewDir     string        `env:"PREVIEW_DIR"`
	InspectPort    int           `env:"INSPECT_PORT,default=7788"`
	LogLevel       string        `env:"LOG_LEVEL,default=warn"`
}
