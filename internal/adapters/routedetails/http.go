package routedetails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"parcel-sorting-service/internal/domain"
	"strconv"
	"strings"
	"time"
)

const maxErrorBody = 4 << 10

type routeDetailsResponse struct {
	ETA   json.RawMessage `json:"eta"`
	Route json.RawMessage `json:"route"`
}

func (c *Client) parcelURL(parcelID int) string {
	return c.baseURL + "/" + strconv.Itoa(parcelID)
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// fetch issues exactly one GET for the parcel and decodes the route details.
func (c *Client) fetch(ctx context.Context, parcelID int) (domain.RouteDetails, error) {
	url := c.parcelURL(parcelID)

	req, err := c.newRequest(ctx, url)
	if err != nil {
		return domain.RouteDetails{}, err
	}

	resp, err := c.session.Do(req)
	if err != nil {
		if ctx.Err() == nil && isTransient(err) {
			return domain.RouteDetails{}, &TransientNetworkError{URL: url, Err: err}
		}
		return domain.RouteDetails{}, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.RouteDetails{}, &RemoteServiceError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return domain.RouteDetails{}, &ProtocolError{
			URL:    url,
			Reason: fmt.Sprintf("unexpected content type %q", contentType),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// A body cut short means the peer dropped the connection mid-response,
		// which is the same failure as a reset seen before the headers.
		if isTransient(err) {
			return domain.RouteDetails{}, &TransientNetworkError{URL: url, Err: err}
		}
		return domain.RouteDetails{}, fmt.Errorf("read body of GET %s: %w", url, err)
	}

	details, err := decodeRouteDetails(body)
	if err != nil {
		return domain.RouteDetails{}, &ProtocolError{URL: url, Reason: "decode route details", Err: err}
	}

	return details, nil
}

// decodeRouteDetails requires both eta and route to be present and non-null.
// eta must be an RFC 3339 timestamp string; route may be a string or a number.
// Any other shape is an error, which fetch reports as a terminal ProtocolError.
func decodeRouteDetails(body []byte) (domain.RouteDetails, error) {
	var raw routeDetailsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.RouteDetails{}, err
	}

	if isAbsent(raw.ETA) {
		return domain.RouteDetails{}, fmt.Errorf("missing 'eta' property")
	}
	if isAbsent(raw.Route) {
		return domain.RouteDetails{}, fmt.Errorf("missing 'route' property")
	}

	var etaText string
	if err := json.Unmarshal(raw.ETA, &etaText); err != nil {
		return domain.RouteDetails{}, fmt.Errorf("eta: %w", err)
	}
	eta, err := time.Parse(time.RFC3339, etaText)
	if err != nil {
		return domain.RouteDetails{}, fmt.Errorf("eta: %w", err)
	}

	route, err := decodeRoute(raw.Route)
	if err != nil {
		return domain.RouteDetails{}, fmt.Errorf("route: %w", err)
	}

	return domain.RouteDetails{Route: route, ETA: eta}, nil
}

// decodeRoute accepts a JSON string or a JSON number.
func decodeRoute(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("want string or number, got %s", string(raw))
	}
	return n.String(), nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
