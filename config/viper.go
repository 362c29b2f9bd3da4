// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"github.com/z5labs/ddexport/config/key"

	"github.com/spf13/viper"
)

// Viper represents a Source backed by a *viper.Viper, typically one with
// command line flags and environment variables bound to it.
type Viper struct {
	v *viper.Viper
}

// FromViper returns a Source which applies every key that has
// explicitly been set on v. Flag defaults are not applied so they
// never shadow values from an earlier file source.
func FromViper(v *viper.Viper) Viper {
	return Viper{v: v}
}

// Apply implements the Source interface.
func (src Viper) Apply(store Store) error {
	for _, k := range src.v.AllKeys() {
		if !src.v.IsSet(k) {
			continue
		}
		err := store.Set(key.Split(k), src.v.Get(k))
		if err != nil {
			return err
		}
	}
	return nil
}
