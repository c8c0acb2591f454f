package domain

import "sort"

var distributionCenters = map[string][]string{
	"HKG": {"Kowloon Distribution Center", "New Territories Warehouse", "Hong Kong Island Hub", "Lantau Logistics Park"},
	"LAX": {"Downtown LA Hub", "Long Beach Distribution", "Santa Monica Warehouse", "Inglewood Logistics Center"},
	"JFK": {"Brooklyn Logistics Center", "Queens Distribution Hub", "Manhattan Warehouse", "Bronx Distribution Park"},
	"LHR": {"Heathrow Industrial Estate", "East London Warehouse", "West London Hub", "Slough Distribution Center"},
	"PVG": {"Pudong Distribution Center", "Shanghai Free Trade Zone", "Hongqiao Logistics Hub", "Baoshan Warehouse"},
	"NRT": {"Tokyo Bay Warehouse", "Narita Logistics Hub", "Chiba Distribution Center", "Saitama Warehouse Park"},
	"SIN": {"Changi Business Park", "Jurong Distribution Center", "Woodlands Logistics Hub", "Tuas Warehouse Complex"},
	"DXB": {"Dubai Logistics City", "Jebel Ali Warehouse", "Al Quoz Industrial Hub", "Dubai South Distribution"},
	"FRA": {"Frankfurt Rhine-Main Hub", "Industrial Park West", "Offenbach Distribution", "Darmstadt Logistics Center"},
	"SYD": {"Sydney Port Distribution", "Western Sydney Logistics", "Botany Bay Hub", "Parramatta Warehouse"},
}

// Airports returns the served airport codes in alphabetical order.
func Airports() []string {
	codes := make([]string, 0, len(distributionCenters))
	for code := range distributionCenters {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DistributionCenters returns the ground facilities reachable from an airport.
func DistributionCenters(airport string) []string {
	dcs := distributionCenters[airport]
	out := make([]string, len(dcs))
	copy(out, dcs)
	return out
}
