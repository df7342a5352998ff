package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"git.retroherna.org/rh/rhforum/src/config"
	"git.retroherna.org/rh/rhforum/src/oops"
)

// An Article is externally rendered content shown alongside a thread. The
// forum treats the article reference as opaque and fetch failures as
// non-fatal; a thread renders fine without its article.
type Article struct {
	Name string
	Html string
}

type Fetcher interface {
	FetchArticle(ctx context.Context, name string) (*Article, error)
}

// Fetches rendered articles from a DokuWiki instance over its xhtml export
// endpoint, with basic auth when credentials are configured.
type DokuWiki struct {
	baseUrl  string
	user     string
	password string
	client   *http.Client
}

var _ Fetcher = &DokuWiki{}

// Returns nil when no wiki is configured; callers must treat a nil fetcher
// as "no wiki articles anywhere".
func NewDokuWiki() *DokuWiki {
	if config.Config.Wiki.Url == "" {
		return nil
	}
	return &DokuWiki{
		baseUrl:  config.Config.Wiki.Url,
		user:     config.Config.Wiki.User,
		password: config.Config.Wiki.Password,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *DokuWiki) FetchArticle(ctx context.Context, name string) (*Article, error) {
	query := url.Values{}
	query.Set("id", name)
	query.Set("do", "export_xhtml")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/doku.php?%s", w.baseUrl, query.Encode()), nil)
	if err != nil {
		return nil, oops.New(err, "failed to create wiki request")
	}
	if w.user != "" {
		req.SetBasicAuth(w.user, w.password)
	}

	res, err := w.client.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to fetch wiki article")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, oops.New(nil, "wiki returned status %d for article %q", res.StatusCode, name)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read wiki article")
	}

	return &Article{Name: name, Html: string(body)}, nil
}
