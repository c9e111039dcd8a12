// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regime

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akualab/regime/model"
	"github.com/akualab/regime/model/gaussian"
	"github.com/akualab/regime/model/hmm"
	"github.com/akualab/regime/source"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config describes a detector. Zero values are replaced by the defaults
// below, which reproduce the reference two-state market model.
type Config struct {
	Model     Model        `yaml:"model" json:"model"`
	Training  Training     `yaml:"training" json:"training"`
	Inference Inference    `yaml:"inference" json:"inference"`
	Source    SourceConfig `yaml:"source" json:"source"`
}

// Model holds the initial HMM parameters.
type Model struct {
	// Regime names indexed by state. Optional.
	States      []string    `yaml:"states,omitempty" json:"states,omitempty" validate:"omitempty,min=2,dive,required"`
	Transitions [][]float64 `yaml:"transitions" json:"transitions" default:"[[0.9,0.1],[0.2,0.8]]" validate:"required,min=2,dive,required,dive,gte=0,lte=1"`
	Initial     []float64   `yaml:"initial" json:"initial" default:"[0.5,0.5]" validate:"required,min=2,dive,gte=0,lte=1"`
	Emission    string      `yaml:"emission" json:"emission" default:"mean" validate:"oneof=mean gaussian"`
	Means       []float64   `yaml:"means" json:"means" default:"[0.005,-0.005]" validate:"required,min=2"`
	StdDevs     []float64   `yaml:"std_devs,omitempty" json:"std_devs,omitempty" validate:"omitempty,min=2,dive,gt=0"`
}

// Training configures the trainer.
type Training struct {
	Iterations int     `yaml:"iterations" json:"iterations" default:"1" validate:"gte=0"`
	Scaling    string  `yaml:"scaling" json:"scaling" default:"scaled" validate:"oneof=scaled none"`
	Tolerance  float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty" validate:"gte=0"`
	UpdateTP   bool    `yaml:"update_tp" json:"update_tp" default:"true"`
	UpdateIP   bool    `yaml:"update_ip" json:"update_ip" default:"true"`
	UpdateOP   bool    `yaml:"update_op" json:"update_op"`
	OnCollapse string  `yaml:"on_collapse" json:"on_collapse" default:"fail" validate:"oneof=fail retain"`
}

// Inference configures the inferrer.
type Inference struct {
	Mode string `yaml:"mode" json:"mode" default:"baseline" validate:"oneof=baseline viterbi posterior"`
}

// SourceConfig configures the observation source.
type SourceConfig struct {
	Kind         string        `yaml:"kind" json:"kind" default:"synthetic" validate:"oneof=synthetic hmm"`
	Count        int           `yaml:"count" json:"count" default:"100" validate:"gte=1"`
	Seed         int64         `yaml:"seed" json:"seed" default:"33"`
	RegimeLength int           `yaml:"regime_length" json:"regime_length" default:"50" validate:"gte=1"`
	Bull         source.Regime `yaml:"bull" json:"bull"`
	Bear         source.Regime `yaml:"bear" json:"bear"`
}

// SetDefaults implements defaults.Setter.
func (s *SourceConfig) SetDefaults() {
	if s.Bull == (source.Regime{}) {
		s.Bull = source.DefaultBull
	}
	if s.Bear == (source.Regime{}) {
		s.Bear = source.DefaultBear
	}
}

// NewConfig returns the default configuration.
func NewConfig() (*Config, error) {

	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadConfig reads a YAML configuration file. See ReadConfigReader().
func ReadConfig(fn string) (*Config, error) {

	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadConfigReader(f)
}

// ReadConfigReader reads a YAML configuration from an io.Reader. Missing
// values take their defaults. The result is validated.
func ReadConfigReader(r io.Reader) (*Config, error) {

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c, err := NewConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("can't parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field constraints and that the model parameters form a
// valid HMM.
func (c *Config) Validate() error {

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if n := len(c.Model.States); n > 0 && n != len(c.Model.Initial) {
		return fmt.Errorf("invalid config: %d state names for %d states", n, len(c.Model.Initial))
	}
	if c.Model.Emission == "gaussian" && c.Model.StdDevs == nil {
		return fmt.Errorf("invalid config: gaussian emission needs std_devs")
	}
	p, err := c.Params()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return checkEmitter(c.Emitter(), p)
}

func checkEmitter(e model.Emitter, p *hmm.Params) error {
	if err := e.Validate(p.Emission); err != nil {
		return fmt.Errorf("invalid config: %w: %v", hmm.ErrInvalidModel, err)
	}
	return nil
}

// Params builds the initial HMM parameters.
func (c *Config) Params() (*hmm.Params, error) {

	em := model.Emission{Means: c.Model.Means, StdDevs: c.Model.StdDevs}
	return hmm.NewParams(c.Model.Transitions, c.Model.Initial, em)
}

// Emitter returns the configured emission likelihood.
func (c *Config) Emitter() model.Emitter {
	if c.Model.Emission == "gaussian" {
		return gaussian.Emitter{}
	}
	return model.Mean{}
}

// Mode returns the inference mode.
func (c *Config) Mode() (hmm.Mode, error) {
	return hmm.ParseMode(c.Inference.Mode)
}

// Options returns the hmm options for training and inference.
func (c *Config) Options() ([]hmm.Option, error) {

	scaling, err := hmm.ParseScaleMode(c.Training.Scaling)
	if err != nil {
		return nil, err
	}
	collapse, err := hmm.ParseCollapsePolicy(c.Training.OnCollapse)
	if err != nil {
		return nil, err
	}
	mode, err := c.Mode()
	if err != nil {
		return nil, err
	}
	return []hmm.Option{
		hmm.Emitter(c.Emitter()),
		hmm.Scaling(scaling),
		hmm.UpdateTP(c.Training.UpdateTP),
		hmm.UpdateIP(c.Training.UpdateIP),
		hmm.UpdateOP(c.Training.UpdateOP),
		hmm.OnCollapse(collapse),
		hmm.Tolerance(c.Training.Tolerance),
		hmm.Decode(mode),
	}, nil
}

// NewSource creates the configured observation source.
func (c *Config) NewSource() (Source, error) {

	switch c.Source.Kind {
	case "synthetic":
		s, err := source.NewSynthetic(c.Source.Bull, c.Source.Bear, c.Source.RegimeLength, c.Source.Seed)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "hmm":
		p, err := c.Params()
		if err != nil {
			return nil, err
		}
		h, err := source.NewHMM(p, c.Source.Seed)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	return nil, fmt.Errorf("unknown source kind [%s]", c.Source.Kind)
}
