package config

import (
	"strconv"

	"github.com/joho/godotenv"
)

// Personals holds the notification switches and credentials read from the
// key=value personals file.
type Personals struct {
	SMSEnabled       bool
	TwilioAccountSID string `validate:"required_if=SMSEnabled true"`
	TwilioAuthToken  string `validate:"required_if=SMSEnabled true"`
	SMSFrom          string `validate:"required_if=SMSEnabled true"`
	SMSTo            string `validate:"required_if=SMSEnabled true"`

	EmailEnabled bool
	EmailFrom    string `validate:"required_if=EmailEnabled true"`
	EmailTo      string `validate:"required_if=EmailEnabled true"`
	SMTPHost     string `validate:"required_if=EmailEnabled true"`
	SMTPPort     int    `validate:"omitempty,min=1,max=65535"`
	SMTPUser     string
	SMTPPassword string

	TelegramEnabled bool
	TelegramToken   string `validate:"required_if=TelegramEnabled true"`
	TelegramChatID  int64  `validate:"required_if=TelegramEnabled true"`
}

// LoadPersonals reads and validates the personals file. SMS is enabled by
// default whenever Twilio credentials are present.
func LoadPersonals(path string) (*Personals, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}

	p := &Personals{
		TwilioAccountSID: values["twilio_account_sid"],
		TwilioAuthToken:  values["twilio_auth_token"],
		SMSFrom:          values["from"],
		SMSTo:            values["to"],
		EmailFrom:        values["email_from"],
		EmailTo:          values["email_to"],
		SMTPHost:         values["smtp_host"],
		SMTPUser:         values["smtp_user"],
		SMTPPassword:     values["smtp_password"],
		TelegramToken:    values["telegram_token"],
	}

	bools := []struct {
		key string
		def bool
		dst *bool
	}{
		{"sms_enabled", p.TwilioAccountSID != "", &p.SMSEnabled},
		{"email_enabled", false, &p.EmailEnabled},
		{"telegram_enabled", false, &p.TelegramEnabled},
	}
	for _, b := range bools {
		*b.dst = b.def
		if v, ok := values[b.key]; ok {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, &ConfigError{Source: path + ": " + b.key, Err: err}
			}
			*b.dst = parsed
		}
	}

	p.SMTPPort = 587
	if v, ok := values["smtp_port"]; ok {
		if p.SMTPPort, err = strconv.Atoi(v); err != nil {
			return nil, &ConfigError{Source: path + ": smtp_port", Err: err}
		}
	}
	if v, ok := values["telegram_chat_id"]; ok {
		if p.TelegramChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, &ConfigError{Source: path + ": telegram_chat_id", Err: err}
		}
	}

	if err := validate.Struct(p); err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	return p, nil
}
