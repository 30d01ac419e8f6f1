// Package lookup resolve um CEP japonês (郵便番号) em província e cidade pela
// API de busca do zipcloud.
package lookup

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/Werneck0live/company-registration/internal/models"
	"github.com/Werneck0live/company-registration/internal/prefecture"
	"github.com/Werneck0live/company-registration/internal/utils"
)

const DefaultBaseURL = "https://zipcloud.ibsnet.co.jp"

var (
	ErrInvalidPostalCode = errors.New("postal code must be 7 digits")
	ErrNotFound          = errors.New("postal code not found")
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Results []struct {
		Zipcode  string `json:"zipcode"`
		Prefcode string `json:"prefcode"`
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		Address3 string `json:"address3"`
	} `json:"results"`
}

// Lookup devolve o primeiro resultado. City é address2 e address3 separados por espaço.
func (c *Client) Lookup(ctx context.Context, postalCode string) (*models.Address, error) {
	code := utils.SanitizeDigits(postalCode)
	if !utils.ValidatePostalCode(code) {
		return nil, ErrInvalidPostalCode
	}

	u := c.baseURL + "/api/search?" + url.Values{"zipcode": {code}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build zipcloud request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "zipcloud request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("zipcloud: unexpected http status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode zipcloud response")
	}
	switch {
	case body.Status == http.StatusBadRequest:
		// zipcloud usa 400 para CEP inexistente/mal formado
		return nil, errors.Wrap(ErrNotFound, body.Message)
	case body.Status != http.StatusOK:
		return nil, errors.Errorf("zipcloud: status %d: %s", body.Status, body.Message)
	case len(body.Results) == 0:
		return nil, ErrNotFound
	}

	r := body.Results[0]
	n, err := strconv.Atoi(strings.TrimSpace(r.Prefcode))
	if err != nil {
		return nil, errors.Wrapf(err, "zipcloud: bad prefcode %q", r.Prefcode)
	}
	pref, ok := prefecture.CodeOf(n)
	if !ok {
		return nil, errors.Errorf("zipcloud: prefcode %d out of range", n)
	}

	return &models.Address{
		PostalCode:     code,
		PrefectureCode: pref,
		Prefecture:     prefecture.NameOr(pref),
		City:           strings.TrimSpace(r.Address2 + " " + r.Address3),
	}, nil
}
