package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lckr_backend/platform/logger"
)

const (
	defaultNominatimURL   = "https://nominatim.openstreetmap.org"
	defaultNominatimLimit = 5
	nominatimProviderName = "nominatim"
)

// NominatimOptions configures the OpenStreetMap Nominatim provider.
type NominatimOptions struct {
	BaseURL      string
	CountryCodes string
	UserAgent    string
	Limit        int
	Timeout      time.Duration
}

// Nominatim implements Provider against the Nominatim search and lookup APIs.
// Place IDs are OSM references such as "W1234" (osm type initial + osm id).
type Nominatim struct {
	client       *http.Client
	baseURL      string
	countryCodes string
	userAgent    string
	limit        int
	log          *logger.Logger
}

// NewNominatim creates a Nominatim provider.
func NewNominatim(opts NominatimOptions, log *logger.Logger) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultNominatimURL
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultNominatimLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "LCKR/1.0"
	}

	return &Nominatim{
		client:       &http.Client{Timeout: opts.Timeout},
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		countryCodes: opts.CountryCodes,
		userAgent:    opts.UserAgent,
		limit:        opts.Limit,
		log:          log,
	}
}

// Predictions searches Nominatim for query. The result echoes query verbatim.
func (n *Nominatim) Predictions(ctx context.Context, query string) (PredictionResult, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "jsonv2")
	params.Add("addressdetails", "1")
	params.Add("limit", strconv.Itoa(n.limit))
	if n.countryCodes != "" {
		params.Add("countrycodes", n.countryCodes)
	}

	var raw []nominatimResponse
	if err := n.get(ctx, "/search", params, &raw); err != nil {
		return PredictionResult{}, &PredictionFetchError{Query: query, Err: err}
	}

	predictions := make([]Prediction, 0, len(raw))
	for _, item := range raw {
		prediction, ok := buildPrediction(item)
		if !ok {
			continue
		}
		predictions = append(predictions, prediction)
	}

	return PredictionResult{Search: query, Predictions: predictions}, nil
}

// Details resolves an OSM reference through the Nominatim lookup API.
func (n *Nominatim) Details(ctx context.Context, placeID string) (Place, error) {
	if !validOSMRef(placeID) {
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: ErrInvalidPlaceID}
	}

	params := url.Values{}
	params.Add("osm_ids", placeID)
	params.Add("format", "jsonv2")
	params.Add("addressdetails", "1")

	var raw []nominatimResponse
	if err := n.get(ctx, "/lookup", params, &raw); err != nil {
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: err}
	}
	if len(raw) == 0 {
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: ErrPlaceNotFound}
	}

	place, err := buildPlace(raw[0])
	if err != nil {
		return Place{}, &DetailFetchError{PlaceID: placeID, Err: err}
	}
	return place, nil
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", n.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.UpstreamError(nominatimProviderName, path, err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upstream api error: %d", resp.StatusCode)
		n.log.UpstreamError(nominatimProviderName, path, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		n.log.Error("failed to decode nominatim payload", "path", path, "error", err)
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func buildPrediction(raw nominatimResponse) (Prediction, bool) {
	ref := osmRef(raw.OSMType, raw.OSMID)
	if ref == "" {
		return Prediction{}, false
	}

	description := raw.DisplayName
	if description == "" {
		description = buildLabel(raw.Address)
	}
	if description == "" {
		return Prediction{}, false
	}

	return Prediction{
		ID:          strconv.FormatInt(raw.PlaceID, 10),
		Description: description,
		PlaceID:     ref,
	}, true
}

func buildPlace(raw nominatimResponse) (Place, error) {
	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("invalid latitude %q", raw.Lat)
	}
	lon, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("invalid longitude %q", raw.Lon)
	}

	address := raw.DisplayName
	if address == "" {
		address = buildLabel(raw.Address)
	}

	return Place{Address: address, Origin: LatLng{Lat: lat, Lng: lon}}, nil
}

func osmRef(osmType string, osmID int64) string {
	if osmID <= 0 || osmType == "" {
		return ""
	}
	switch strings.ToLower(osmType) {
	case "node", "n":
		return "N" + strconv.FormatInt(osmID, 10)
	case "way", "w":
		return "W" + strconv.FormatInt(osmID, 10)
	case "relation", "r":
		return "R" + strconv.FormatInt(osmID, 10)
	default:
		return ""
	}
}

func validOSMRef(ref string) bool {
	if len(ref) < 2 {
		return false
	}
	switch ref[0] {
	case 'N', 'W', 'R':
	default:
		return false
	}
	id, err := strconv.ParseInt(ref[1:], 10, 64)
	return err == nil && id > 0
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

// buildLabel renders "Road 12, 19104 City" from structured address parts.
func buildLabel(address nominatimAddress) string {
	city := pickCity(address)
	if address.Road == "" && city == "" {
		return ""
	}

	parts := []string{}
	if address.Road != "" {
		parts = append(parts, address.Road)
	}
	if address.HouseNumber != "" {
		parts = append(parts, address.HouseNumber)
	}
	parts = append(parts, ",")
	if address.Postcode != "" {
		parts = append(parts, address.Postcode)
	}
	parts = append(parts, city)

	label := strings.Join(parts, " ")
	label = strings.ReplaceAll(label, " ,", ",")
	label = strings.TrimPrefix(label, ", ")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), ","))
}

type nominatimAddress struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Hamlet       string `json:"hamlet"`
}

// nominatimResponse mirrors the relevant parts of the OSM search/lookup payload.
type nominatimResponse struct {
	PlaceID     int64            `json:"place_id"`
	OSMType     string           `json:"osm_type"`
	OSMID       int64            `json:"osm_id"`
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
}

var _ Provider = (*Nominatim)(nil)
