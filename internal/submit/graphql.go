package submit

import (
	"bytes"
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/Werneck0live/company-registration/internal/models"
)

const createCompanyMutation = `mutation CreateCompany($input: CompanyCreateInput!) {
  createCompany(input: $input) {
    id
    companyCode
  }
}`

type GraphQLClient struct {
	endpoint string
	http     *http.Client
	tokens   TokenSource
}

// NewGraphQLClient faz POST em endpoint. tokens pode ser nil em endpoints sem autenticação.
func NewGraphQLClient(endpoint string, timeout time.Duration, tokens TokenSource) *GraphQLClient {
	return &GraphQLClient{endpoint: endpoint, http: &http.Client{Timeout: timeout}, tokens: tokens}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data *struct {
		CreateCompany *models.CreatedCompany `json:"createCompany"`
	} `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

func (c *GraphQLClient) CreateCompany(ctx context.Context, p *models.APIPayload) (*models.CreatedCompany, error) {
	body, err := json.Marshal(gqlRequest{
		Query:     createCompanyMutation,
		Variables: map[string]any{"input": p},
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode createCompany request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build createCompany request")
	}
	req.Header.Set("Content-Type", "application/json")
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "access token")
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "createCompany request")
	}
	defer resp.Body.Close()

	var out gqlResponse
	decErr := json.NewDecoder(resp.Body).Decode(&out)

	if len(out.Errors) > 0 {
		e := out.Errors[0]
		return nil, classify(e.Extensions.Code, e.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Code: http.StatusText(resp.StatusCode), Message: "unexpected http status"}
	}
	if decErr != nil {
		return nil, errors.Wrap(decErr, "decode createCompany response")
	}
	if out.Data == nil || out.Data.CreateCompany == nil {
		return nil, &RemoteError{Message: "empty createCompany result"}
	}
	return out.Data.CreateCompany, nil
}

func (c *GraphQLClient) Close() error { return nil }
