package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/staticimport/swa/internal/fares"
)

// ItineraryShape is the expected layout of one itinerary line.
const ItineraryShape = "origin:dest:numPassengers:leaveDate:returnDate"

var validate = validator.New()

// itineraryYAML is the YAML form of an itinerary record.
type itineraryYAML struct {
	Origin      string `yaml:"origin"`
	Destination string `yaml:"destination"`
	Passengers  int    `yaml:"passengers"`
	Leave       string `yaml:"leave"`
	Return      string `yaml:"return"`
}

// LoadItineraries reads the trips file. Files ending in .yaml or .yml hold
// a list of records; anything else holds one ItineraryShape line each.
func LoadItineraries(path string) ([]fares.Itinerary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}

	var its []fares.Itinerary
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		its, err = parseItineraryYAML(path, data)
	default:
		its, err = parseItineraryLines(path, data)
	}
	if err != nil {
		return nil, err
	}
	if len(its) == 0 {
		return nil, &ConfigError{Source: path, Err: errors.New("no itineraries configured")}
	}
	return its, nil
}

func parseItineraryLines(path string, data []byte) ([]fares.Itinerary, error) {
	var its []fares.Itinerary
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		it, err := ParseItinerary(line)
		if err != nil {
			return nil, &ConfigError{Source: fmt.Sprintf("%s:%d", path, n), Err: err}
		}
		its = append(its, it)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	return its, nil
}

func parseItineraryYAML(path string, data []byte) ([]fares.Itinerary, error) {
	var records []itineraryYAML
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}

	its := make([]fares.Itinerary, 0, len(records))
	for i, r := range records {
		if r.Passengers == 0 {
			r.Passengers = 1
		}
		it, err := buildItinerary(r.Origin, r.Destination, strconv.Itoa(r.Passengers), r.Leave, r.Return)
		if err != nil {
			return nil, &ConfigError{Source: fmt.Sprintf("%s[%d]", path, i), Err: err}
		}
		its = append(its, it)
	}
	return its, nil
}

// ParseItinerary parses one ItineraryShape line. The older four-field form
// origin:dest:leaveDate:returnDate is accepted with one passenger.
func ParseItinerary(line string) (fares.Itinerary, error) {
	parts := strings.Split(line, ":")
	switch len(parts) {
	case 5:
		return buildItinerary(parts[0], parts[1], parts[2], parts[3], parts[4])
	case 4:
		return buildItinerary(parts[0], parts[1], "1", parts[2], parts[3])
	default:
		return fares.Itinerary{}, fmt.Errorf("expected %s, not %q", ItineraryShape, line)
	}
}

func buildItinerary(origin, dest, passengers, leave, ret string) (fares.Itinerary, error) {
	n, err := strconv.Atoi(strings.TrimSpace(passengers))
	if err != nil {
		return fares.Itinerary{}, fmt.Errorf("numPassengers %q: %w", passengers, err)
	}
	leaveDate, err := time.Parse(fares.DateLayout, strings.TrimSpace(leave))
	if err != nil {
		return fares.Itinerary{}, fmt.Errorf("leaveDate %q: want MM/DD/YYYY", leave)
	}
	returnDate, err := time.Parse(fares.DateLayout, strings.TrimSpace(ret))
	if err != nil {
		return fares.Itinerary{}, fmt.Errorf("returnDate %q: want MM/DD/YYYY", ret)
	}

	it := fares.Itinerary{
		Origin:      strings.ToUpper(strings.TrimSpace(origin)),
		Destination: strings.ToUpper(strings.TrimSpace(dest)),
		Passengers:  n,
		Leave:       leaveDate,
		Return:      returnDate,
	}
	if err := validate.Struct(it); err != nil {
		return fares.Itinerary{}, fmt.Errorf("expected %s: %w", ItineraryShape, err)
	}
	return it, nil
}
