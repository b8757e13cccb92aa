// Package parter scrapes event listings from Parter.ru.
package parter

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
	baseURL     = "https://www.parter.ru"
	searchURL   = "https://www.parter.ru/search/?query="
	maxListings = 20
)

type Adapter struct {
	client *retryablehttp.Client
}

func New(proxy string, timeout time.Duration) *Adapter {
	return &Adapter{client: whttp.NewClient(proxy, timeout)}
}

func (a *Adapter) Name() string { return "Parter.ru" }

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
	doc.Find(".event, .show, .concert, .performance, .item").Each(func(_ int, card *goquery.Selection) {
		if len(raws) >= maxListings {
			return
		}
		title := platforms.FirstText(card, ".title, .name, h3, h4")
		if title == "" {
			return
		}
		raws = append(raws, listing.Raw{
			Title:    title,
			Price:    platforms.FirstText(card, ".price, .cost"),
			Date:     platforms.FirstText(card, ".date, .time"),
			Venue:    platforms.FirstText(card, ".venue, .place, .theatre"),
			URL:      platforms.FirstHref(card, baseURL),
			Platform: a.Name(),
		})
	})
	return raws, nil
}
