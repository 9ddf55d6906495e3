package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Organization struct {
		Name string `env:"NAME" envDefault:"StaffHub"`
	} `envPrefix:"ORGANIZATION_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"Administrator"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // hours, 14 days
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		Staff struct {
			Password string `env:"PASSWORD,required"`
		} `envPrefix:"STAFF_"`
	} `envPrefix:"SEED_"`
	Email struct {
		From string `env:"FROM,required"`
		// StaffDomain is the domain seeded demo accounts get their addresses on.
		StaffDomain string `env:"STAFF_DOMAIN" envDefault:"example.com"`
		SMTP struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		LockExpiration      int    `env:"LOCK_EXPIRATION" envDefault:"10"` // seconds a clock lock may be held
	} `envPrefix:"REDIS_"`
	OTP struct {
		Expiration int `env:"EXPIRATION" envDefault:"900"` // seconds
	} `envPrefix:"OTP_"`
	Geofence struct {
		DefaultRadiusMetres float64 `env:"DEFAULT_RADIUS_METRES" envDefault:"150"`
	} `envPrefix:"GEOFENCE_"`
	TimeClock struct {
		EarlyWindowMinutes int    `env:"EARLY_WINDOW_MINUTES" envDefault:"15"`
		LateGraceMinutes   int    `env:"LATE_GRACE_MINUTES" envDefault:"5"`
		DefaultBreakTiers  string `env:"DEFAULT_BREAK_TIERS" envDefault:"4:15,6:30,8:60"`
	} `envPrefix:"TIMECLOCK_"`
	Payroll struct {
		HolidayAccrualPercent           string `env:"HOLIDAY_ACCRUAL_PERCENT" envDefault:"12.07"`
		EmployerContribPercent          string `env:"EMPLOYER_CONTRIB_PERCENT" envDefault:"13.8"`
		EmployerContribMonthlyThreshold string `env:"EMPLOYER_CONTRIB_MONTHLY_THRESHOLD" envDefault:"758"`
	} `envPrefix:"PAYROLL_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// returning only the first error keeps the startup log readable
			return nil, aggErr.Errors[0]
		}
	}

	return cfg, nil
}

// BreakTier is the config-level shape of a mandated break tier; the breakrule
// package converts it to its own type so config stays below every other package.
type BreakTier struct {
	MinHours     float64
	BreakMinutes int
}

// ParseBreakTiers parses the TIMECLOCK_DEFAULT_BREAK_TIERS format, e.g.
// "4:15,6:30,8:60" meaning 15 minutes from 4 worked hours, 30 from 6, 60 from 8.
func ParseBreakTiers(s string) ([]BreakTier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	tiers := make([]BreakTier, 0)
	for _, part := range strings.Split(s, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid break tier %q, expected minHours:breakMinutes", part)
		}
		minHours, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid break tier threshold %q", fields[0])
		}
		minutes, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid break tier minutes %q", fields[1])
		}
		tiers = append(tiers, BreakTier{MinHours: minHours, BreakMinutes: minutes})
	}

	return tiers, nil
}
