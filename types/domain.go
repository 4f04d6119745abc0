package types

import "strings"

// DomainTerms is the fixed HVAC vocabulary shared by the domain gate and
// the synthesizer's relevance check. Matching is a case-insensitive
// substring test: cheap, enumerable, and deliberately tolerant of false
// positives (they only cost one retrieval call).
var DomainTerms = []string{
	"hvac",
	"heat pump",
	"heating",
	"cooling",
	"air conditioning",
	"air conditioner",
	"ventilation",
	"refrigerant",
	"refrigeration",
	"compressor",
	"condenser",
	"evaporator",
	"thermostat",
	"duct",
	"airflow",
	"air handler",
	"heat exchanger",
	"chiller",
	"boiler",
	"furnace",
	"humidity",
	"humidifier",
	"dehumidif",
	"insulation",
	"btu",
	"seer",
	"cop ",
	"load calculation",
	"static pressure",
	"diffuser",
	"damper",
	"economizer",
	"vrf",
	"ahu",
	"fan coil",
	"split system",
}

// HasDomainTerm reports whether s mentions any term of the HVAC vocabulary.
func HasDomainTerm(s string) bool {
	lower := strings.ToLower(s)
	for _, term := range DomainTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
