package config

import (
	"time"

	"github.com/spf13/viper"
)

// Auth auth config struct
type Auth struct {
	JWT      *JWT
	OTP      *OTP
	Managers []ManagerAccount
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT:      getJWT(v),
		OTP:      getOTP(v),
		Managers: getManagers(v),
	}
}

// JWT jwt config struct
type JWT struct {
	Secret string
	Expire time.Duration
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) *JWT {
	return &JWT{
		Secret: v.GetString("auth.jwt.secret"),
		Expire: getDurationOrDefault(v, "auth.jwt.expire", time.Hour),
	}
}

// OTP registration code config struct
type OTP struct {
	Length int
	Expire time.Duration
}

func getOTP(v *viper.Viper) *OTP {
	return &OTP{
		Length: getIntOrDefault(v, "auth.otp.length", 6),
		Expire: getDurationOrDefault(v, "auth.otp.expire", 10*time.Minute),
	}
}

// ManagerAccount is a manager seeded into the store at start.
type ManagerAccount struct {
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

func getManagers(v *viper.Viper) []ManagerAccount {
	var managers []ManagerAccount
	if err := v.UnmarshalKey("auth.managers", &managers); err != nil {
		return nil
	}
	return managers
}
