package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level         int
	Format        string
	Output        string
	OutputFile    string
	IndexName     string
	Desensitize   bool
	Elasticsearch *Elasticsearch
}

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses []string
	Username  string
	Password  string
}

func getLoggerConfig(v *viper.Viper) *Logger {
	indexName := strings.ToLower(getStringOrDefault(v, "app_name", "staffing") + "-" + getStringOrDefault(v, "run_mode", "release") + "-log")
	return &Logger{
		Level:       getIntOrDefault(v, "logger.level", 4),
		Format:      getStringOrDefault(v, "logger.format", "json"),
		Output:      getStringOrDefault(v, "logger.output", "stdout"),
		OutputFile:  v.GetString("logger.output_file"),
		IndexName:   getStringOrDefault(v, "logger.index_name", indexName),
		Desensitize: getBoolOrDefault(v, "logger.desensitize", true),
		Elasticsearch: &Elasticsearch{
			Addresses: v.GetStringSlice("data.elasticsearch.addresses"),
			Username:  v.GetString("data.elasticsearch.username"),
			Password:  v.GetString("data.elasticsearch.password"),
		},
	}
}
