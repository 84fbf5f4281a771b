package config

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/rgehrsitz/opsdash/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var staticProfilesYAML []byte

type profileFile struct {
	Profiles []domain.PersonalYearProfile `yaml:"profiles"`
}

var (
	staticProfilesOnce sync.Once
	staticProfiles     map[int]domain.PersonalYearProfile
)

func loadStaticProfiles() map[int]domain.PersonalYearProfile {
	staticProfilesOnce.Do(func() {
		var pf profileFile
		if err := yaml.Unmarshal(staticProfilesYAML, &pf); err != nil {
			panic(fmt.Sprintf("embedded profile table: %v", err))
		}
		staticProfiles = make(map[int]domain.PersonalYearProfile, len(pf.Profiles))
		for _, p := range pf.Profiles {
			staticProfiles[p.Year] = p
		}
	})
	return staticProfiles
}

// LookupProfile returns the global calibration profile for year, or nil when none exists.
// Callers treat nil exactly like an all-zero profile.
func LookupProfile(year int) *domain.PersonalYearProfile {
	p, ok := loadStaticProfiles()[year]
	if !ok {
		return nil
	}
	return &p
}
