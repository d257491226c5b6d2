/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allbin/go-comport"
)

// lineSettings is the line configuration shared by every command that opens
// a port. Values come from flags, COMPORT_* variables or the config file.
type lineSettings struct {
	Baud        int           `mapstructure:"baud" validate:"baudrate"`
	DataBits    int           `mapstructure:"data-bits" validate:"min=5,max=8"`
	Parity      string        `mapstructure:"parity" validate:"parity"`
	StopBits    string        `mapstructure:"stop-bits" validate:"stopbits"`
	ReadTimeout time.Duration `mapstructure:"read-timeout" validate:"min=0s,max=25.5s,timeoutstep"`

	// explicit records which line settings were given rather than defaulted
	explicit map[string]bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	})
	v.RegisterValidation("baudrate", func(fl validator.FieldLevel) bool {
		return comport.BaudRate(fl.Field().Int()).Valid()
	})
	v.RegisterValidation("parity", func(fl validator.FieldLevel) bool {
		_, err := comport.ParseParity(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("stopbits", func(fl validator.FieldLevel) bool {
		_, err := comport.ParseStopBits(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("timeoutstep", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%int64(100*time.Millisecond) == 0
	})
	return v
}

// addLineFlags registers the line-setting flags on cmd.
func addLineFlags(cmd *cobra.Command, readTimeout time.Duration) {
	cmd.Flags().IntP("baud", "b", 115200, "Baud rate")
	cmd.Flags().Int("data-bits", 8, "Data bits: 5, 6, 7 or 8")
	cmd.Flags().StringP("parity", "p", "none", "Parity: none, odd, even, mark, space")
	cmd.Flags().String("stop-bits", "1", "Stop bits: 1, 1.5 or 2")
	cmd.Flags().Duration("read-timeout", readTimeout, "Read timeout in 100ms steps, 0 blocks")
}

// loadLineSettings binds cmd's flags into viper and decodes the result.
func loadLineSettings(cmd *cobra.Command) (lineSettings, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return lineSettings{}, err
	}
	return decodeLineSettings(viper.GetViper())
}

func decodeLineSettings(v *viper.Viper) (lineSettings, error) {
	var s lineSettings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("invalid %s %q", fe.Field(), fmt.Sprint(fe.Value())))
			}
			return s, errors.New(strings.Join(msgs, ", "))
		}
		return s, err
	}

	s.explicit = map[string]bool{}
	for _, key := range []string{"data-bits", "parity", "stop-bits"} {
		s.explicit[key] = v.IsSet(key)
	}
	return s, nil
}

// open opens name with these settings. Line settings that were only
// defaulted are left to the platform.
func (s lineSettings) open(name string) (comport.Port, error) {
	baud, opts, err := s.options()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("port", name).Stringer("settings", s).Msg("opening port")
	return comport.Open(name, baud, opts...)
}

func (s lineSettings) options() (comport.BaudRate, []comport.Option, error) {
	baud, err := comport.ParseBaudRate(s.Baud)
	if err != nil {
		return 0, nil, err
	}
	opts := []comport.Option{comport.WithReadTimeout(s.ReadTimeout)}

	if s.explicit["data-bits"] {
		bits, err := comport.ParseDataBits(s.DataBits)
		if err != nil {
			return 0, nil, err
		}
		opts = append(opts, comport.WithDataBits(bits))
	}
	if s.explicit["parity"] {
		parity, err := comport.ParseParity(s.Parity)
		if err != nil {
			return 0, nil, err
		}
		opts = append(opts, comport.WithParity(parity))
	}
	if s.explicit["stop-bits"] {
		stop, err := comport.ParseStopBits(s.StopBits)
		if err != nil {
			return 0, nil, err
		}
		opts = append(opts, comport.WithStopBits(stop))
	}
	return baud, opts, nil
}

// String renders the settings in the usual "115200 8N1" form.
func (s lineSettings) String() string {
	parity, err := comport.ParseParity(s.Parity)
	letter := "?"
	if err == nil {
		letter = parity.Letter()
	}
	return fmt.Sprintf("%d %d%s%s", s.Baud, s.DataBits, letter, s.StopBits)
}
