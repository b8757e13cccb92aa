// Package kassir scrapes event listings from Kassir.ru.
package kassir

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/whttp"
)

const (
	baseURL   = "https://www.kassir.ru/"
	searchURL = "https://www.kassir.ru/search?text="

	// maxListings caps how much one platform can contribute per query.
	maxListings = 20
)

// cardSelectors covers the markup variants Kassir has shipped; the site
// renames CSS classes regularly.
const cardSelectors = ".event-card, .event-item, .b-ticket-item, [class*=\"event\"]"

type Adapter struct {
	client *retryablehttp.Client
}

func New(proxy string, timeout time.Duration) *Adapter {
	return &Adapter{client: whttp.NewClient(proxy, timeout)}
}

func (a *Adapter) Name() string { return "Kassir.ru" }

func (a *Adapter) Fetch(ctx context.Context, q platforms.Query) ([]listing.Raw, error) {
	pageURL := baseURL
	if q.SearchTerm != "" {
		pageURL = searchURL + url.QueryEscape(q.SearchTerm)
	}

	res, err := whttp.Fetch(ctx, a.client, &whttp.Request{URL: pageURL})
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, err
	}

	var raws []listing.Raw
	doc.Find(cardSelectors).Each(func(_ int, card *goquery.Selection) {
		if len(raws) >= maxListings {
			return
		}
		title := platforms.FirstText(card, ".event-title, .title, h3, h4, [class*=\"title\"]")
		if title == "" {
			return
		}
		raws = append(raws, listing.Raw{
			Title:    title,
			Price:    platforms.FirstText(card, ".price, .cost, [class*=\"price\"]"),
			Date:     platforms.FirstText(card, ".date, .event-date, [class*=\"date\"]"),
			Venue:    platforms.FirstText(card, ".venue, .place, [class*=\"venue\"]"),
			URL:      platforms.FirstHref(card, strings.TrimSuffix(baseURL, "/")),
			Platform: a.Name(),
		})
	})
	return raws, nil
}
