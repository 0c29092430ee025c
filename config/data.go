package config

import (
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// Data represents the data configuration
type Data struct {
	Driver   string
	MongoDB  *MongoDB
	Redis    *Redis
	RabbitMQ *RabbitMQ
}

// MongoDB mongodb config struct
type MongoDB struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Redis redis config struct
type Redis struct {
	Addr         string
	Username     string
	Password     string
	Db           int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
	TTL          time.Duration
}

// RabbitMQ rabbitmq config struct
type RabbitMQ struct {
	URL            string
	Exchange       string
	PublishTimeout time.Duration
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Driver: getStringOrDefault(v, "data.driver", DriverMongoDB),
		MongoDB: &MongoDB{
			URI:            v.GetString("data.mongodb.uri"),
			Database:       getStringOrDefault(v, "data.mongodb.database", "staffing"),
			ConnectTimeout: getDurationOrDefault(v, "data.mongodb.connect_timeout", 10*time.Second),
		},
		Redis: &Redis{
			Addr:         v.GetString("data.redis.addr"),
			Username:     v.GetString("data.redis.username"),
			Password:     v.GetString("data.redis.password"),
			Db:           v.GetInt("data.redis.db"),
			ReadTimeout:  getDurationOrDefault(v, "data.redis.read_timeout", 3*time.Second),
			WriteTimeout: getDurationOrDefault(v, "data.redis.write_timeout", 3*time.Second),
			DialTimeout:  getDurationOrDefault(v, "data.redis.dial_timeout", 5*time.Second),
			TTL:          getDurationOrDefault(v, "data.redis.ttl", 10*time.Minute),
		},
		RabbitMQ: &RabbitMQ{
			URL:            v.GetString("data.rabbitmq.url"),
			Exchange:       getStringOrDefault(v, "data.rabbitmq.exchange", "staffing.events"),
			PublishTimeout: getDurationOrDefault(v, "data.rabbitmq.publish_timeout", 30*time.Second),
		},
	}
}
