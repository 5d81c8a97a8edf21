package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GameDefault is the boot-time configuration for one game. Entries are seeded
// into the config store insert-if-absent, so anything an operator has already
// changed through the admin API survives restarts.
type GameDefault struct {
	Slug       string          `yaml:"slug"`
	Active     bool            `yaml:"active"`
	RTPTarget  float64         `yaml:"rtp_target"`
	MinStake   float64         `yaml:"min_stake"`
	MaxStake   float64         `yaml:"max_stake"`
	Multiplier float64         `yaml:"multiplier,omitempty"`
	Paytable   []PaytableEntry `yaml:"paytable,omitempty"`
}

type PaytableEntry struct {
	Mult   float64 `yaml:"mult"`
	Weight int     `yaml:"w"`
}

type gamesFile struct {
	Games []GameDefault `yaml:"games"`
}

// LoadGameDefaults reads the YAML games file, or returns the built-in set when
// no path is configured.
func LoadGameDefaults(path string) ([]GameDefault, error) {
	if path == "" {
		return BuiltinGameDefaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.LoadGameDefaults: %w", err)
	}

	var f gamesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config.LoadGameDefaults: %w", err)
	}

	for i, g := range f.Games {
		if g.Slug == "" {
			return nil, fmt.Errorf("config.LoadGameDefaults: games[%d] has no slug", i)
		}
		if g.MaxStake == 0 {
			f.Games[i].MaxStake = 1000
		}
		if g.MinStake == 0 {
			f.Games[i].MinStake = 1
		}
	}

	return f.Games, nil
}

// BuiltinGameDefaults mirrors the panel defaults the platform launched with.
func BuiltinGameDefaults() []GameDefault {
	return []GameDefault{
		{Slug: "coinflip", Active: true, RTPTarget: 0.95, MinStake: 1, MaxStake: 1000, Multiplier: 2.0},
		{Slug: "dice", Active: true, RTPTarget: 0.90, MinStake: 1, MaxStake: 1000, Multiplier: 6.0},
		{Slug: "hilo", Active: true, RTPTarget: 0.975, MinStake: 1, MaxStake: 1000, Multiplier: 1.95},
		{Slug: "scratch", Active: true, RTPTarget: 0.90, MinStake: 1, MaxStake: 500, Paytable: []PaytableEntry{
			{Mult: 0, Weight: 70},
			{Mult: 0.5, Weight: 15},
			{Mult: 1.0, Weight: 8},
			{Mult: 2.0, Weight: 5},
			{Mult: 10, Weight: 2},
		}},
		{Slug: "slots_common", Active: true, RTPTarget: 0.93, MinStake: 1, MaxStake: 1000, Paytable: []PaytableEntry{
			{Mult: 0, Weight: 64},
			{Mult: 1.2, Weight: 22},
			{Mult: 2, Weight: 9},
			{Mult: 5, Weight: 4},
			{Mult: 20, Weight: 1},
		}},
		{Slug: "slots_premium", Active: true, RTPTarget: 0.92, MinStake: 1, MaxStake: 2000, Paytable: []PaytableEntry{
			{Mult: 0, Weight: 66},
			{Mult: 1.2, Weight: 20},
			{Mult: 2, Weight: 8},
			{Mult: 5, Weight: 5},
			{Mult: 25, Weight: 1},
		}},
	}
}
