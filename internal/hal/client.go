// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hal queries the HAL open archive (archives-ouvertes.fr). The
// main archive and the thesis archive (TEL) expose the same Solr
// document shape; the client queries both and merges by docid.
package hal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mlaurent/halindex/internal/httputil"
	"github.com/mlaurent/halindex/pkg/types"
)

// docFields is the fl parameter for publication queries.
const docFields = "docid,title_s,publicationDateY_i,publicationDate_s,docType_s," +
	"domain_s,keyword_s,authFullName_s,authIdHal_s,journalTitle_s,labStructName_s"

// Query restricts an author search.
type Query struct {
	// FromYear and ToYear bound the publication year, inclusive. Zero
	// means unbounded on that side.
	FromYear int
	ToYear   int

	// Domains lists HAL domain codes to filter on.
	Domains []string

	// DocTypes lists user-facing document type codes; they are expanded
	// through LinkedDocTypes before querying.
	DocTypes []string
}

// Client queries the archive endpoints with rate limiting and 429 retry.
type Client struct {
	cfg     types.ArchiveConfig
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a Client from the archive configuration. Zero-valued
// fields fall back to the defaults.
func NewClient(cfg types.ArchiveConfig) *Client {
	def := types.DefaultArchiveConfig()
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = def.Endpoints
	}
	if cfg.Rows <= 0 {
		cfg.Rows = def.Rows
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// FetchScientist retrieves the raw publication records for one roster
// scientist. Every known name form is queried in both token orders; a
// record seen under several queries or endpoints is returned once, by
// docid.
func (c *Client) FetchScientist(ctx context.Context, s *types.Scientist, q Query) ([]*types.RawPublication, error) {
	seen := make(map[string]bool)
	var out []*types.RawPublication

	for _, name := range s.Names() {
		for _, term := range searchTerms(name) {
			pubs, err := c.search(ctx, term, q)
			if err != nil {
				return nil, fmt.Errorf("fetching %q: %w", term, err)
			}
			for _, pub := range pubs {
				if pub.ArchiveID != "" && seen[pub.ArchiveID] {
					continue
				}
				if pub.ArchiveID != "" {
					seen[pub.ArchiveID] = true
				}
				out = append(out, pub)
			}
		}
	}
	return out, nil
}

// searchTerms returns the name and, for multi-token names, its inverted
// order. The archive indexes some authors surname-first.
func searchTerms(name string) []string {
	terms := []string{name}
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		inverted := strings.Join(append(parts[len(parts)-1:], parts[:len(parts)-1]...), " ")
		if inverted != name {
			terms = append(terms, inverted)
		}
	}
	return terms
}

// search runs one author query against every endpoint, following
// pagination until numFound is exhausted.
func (c *Client) search(ctx context.Context, term string, q Query) ([]*types.RawPublication, error) {
	var out []*types.RawPublication
	for _, endpoint := range c.cfg.Endpoints {
		source := endpointSource(endpoint)
		for start := 0; ; start += c.cfg.Rows {
			page, numFound, err := c.fetchPage(ctx, endpoint, term, q, start)
			if err != nil {
				return nil, err
			}
			for _, doc := range page {
				out = append(out, doc.toRaw(source))
			}
			if start+c.cfg.Rows >= numFound || len(page) == 0 {
				break
			}
		}
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint, term string, q Query, start int) ([]halDoc, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	params := url.Values{
		"q":     {fmt.Sprintf("authFullName_t:%q", term)},
		"fl":    {docFields},
		"wt":    {"json"},
		"rows":  {fmt.Sprintf("%d", c.cfg.Rows)},
		"start": {fmt.Sprintf("%d", start)},
	}
	for _, fq := range filterQueries(q) {
		params.Add("fq", fq)
	}

	reqURL := strings.TrimSuffix(endpoint, "/") + "/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, 0, fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("archive returned HTTP %d", resp.StatusCode)
	}

	var hr halResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return nil, 0, fmt.Errorf("parsing archive response: %w", err)
	}
	return hr.Response.Docs, hr.Response.NumFound, nil
}

// filterQueries renders the fq parameters for a Query.
func filterQueries(q Query) []string {
	var fqs []string
	if q.FromYear > 0 || q.ToYear > 0 {
		from, to := "*", "*"
		if q.FromYear > 0 {
			from = fmt.Sprintf("%d", q.FromYear)
		}
		if q.ToYear > 0 {
			to = fmt.Sprintf("%d", q.ToYear)
		}
		fqs = append(fqs, fmt.Sprintf("publicationDateY_i:[%s TO %s]", from, to))
	}
	if len(q.Domains) > 0 {
		fqs = append(fqs, "domain_s:("+strings.Join(q.Domains, " OR ")+")")
	}
	if len(q.DocTypes) > 0 {
		linked := LinkedDocTypes(q.DocTypes)
		fqs = append(fqs, "docType_s:("+strings.Join(linked, " OR ")+")")
	}
	return fqs
}

func endpointSource(endpoint string) string {
	if strings.Contains(endpoint, "/tel") {
		return "hal-tel"
	}
	return "hal"
}

// HAL Solr JSON structures.
type halResponse struct {
	Response struct {
		NumFound int      `json:"numFound"`
		Docs     []halDoc `json:"docs"`
	} `json:"response"`
}

type halDoc struct {
	Docid            json.Number `json:"docid"`
	TitleS           []string    `json:"title_s"`
	PublicationYearI int         `json:"publicationDateY_i"`
	PublicationDateS string      `json:"publicationDate_s"`
	DocTypeS         string      `json:"docType_s"`
	DomainS          []string    `json:"domain_s"`
	KeywordS         []string    `json:"keyword_s"`
	AuthFullNameS    []string    `json:"authFullName_s"`
	AuthIDHalS       []string    `json:"authIdHal_s"`
	JournalTitleS    string      `json:"journalTitle_s"`
	LabStructNameS   []string    `json:"labStructName_s"`
}

// toRaw converts a Solr document to a raw publication record. Author
// identifier lists are not guaranteed to align with the name list, so
// identifiers are attached positionally only as far as both lists go.
func (d halDoc) toRaw(source string) *types.RawPublication {
	pub := &types.RawPublication{
		ArchiveID: d.Docid.String(),
		Year:      d.PublicationYearI,
		Venue:     d.JournalTitleS,
		DocType:   d.DocTypeS,
		Source:    source,
	}
	if len(d.TitleS) > 0 {
		pub.Title = d.TitleS[0]
	}
	if d.PublicationDateS != "" {
		if t, err := time.Parse("2006-01-02", d.PublicationDateS); err == nil {
			pub.Date = t
		}
	}

	for _, kw := range d.KeywordS {
		if kw != "" {
			pub.Topics = append(pub.Topics, kw)
		}
	}
	for _, code := range d.DomainS {
		pub.Topics = append(pub.Topics, MapDomain(code))
	}

	for i, name := range d.AuthFullNameS {
		mention := types.RawAuthorMention{FullName: name}
		if i < len(d.AuthIDHalS) {
			id := strings.TrimSpace(d.AuthIDHalS[i])
			// Bare "hal-..." values are structure identifiers, not authors.
			if id != "" && !strings.HasPrefix(strings.ToLower(id), "hal") {
				mention.ArchiveID = id
			}
		}
		if i < len(d.LabStructNameS) {
			mention.Affiliation = d.LabStructNameS[i]
		}
		pub.Authors = append(pub.Authors, mention)
	}
	return pub
}
