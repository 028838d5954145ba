// internal/adapters/out/swiggy/menu_client.go
package swiggy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	menudom "quickbite/internal/domain/menu"
)

// MenuClient implements menu.Source against the Swiggy menu API.
//
// In development the base URL points at the cmd/proxy reverse proxy (the
// upstream blocks browser origins); the response shape is identical either
// way. The payload is a deeply nested card list; only the restaurant info
// card and the REGULAR card group's itemCards are read, everything else is
// ignored.
type MenuClient struct {
	client  *http.Client
	baseURL string // e.g. "http://localhost:4000/swiggy"
	cdnBase string // prefix for imageId -> full image URL ("" keeps raw ids)
	lat     string
	lng     string
}

func NewMenuClient(baseURL, cdnBase, lat, lng string) *MenuClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if lat == "" {
		lat = "19.0759837"
	}
	if lng == "" {
		lng = "72.8776559"
	}

	return &MenuClient{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		baseURL: baseURL,
		cdnBase: strings.TrimSpace(cdnBase),
		lat:     lat,
		lng:     lng,
	}
}

// FetchMenu fetches and flattens the full menu for one restaurant.
func (c *MenuClient) FetchMenu(ctx context.Context, restaurantID string) (*menudom.RestaurantMenu, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("menu_client: not configured")
	}

	rid := strings.TrimSpace(restaurantID)
	if rid == "" {
		return nil, fmt.Errorf("menu_client: restaurantID is empty")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("menu_client: baseURL is empty; menu source not configured")
	}

	url := fmt.Sprintf(
		"%s/dapi/menu/pl?page-type=REGULAR_MENU&complete-menu=true&lat=%s&lng=%s&restaurantId=%s",
		c.baseURL, c.lat, c.lng, rid,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("menu_client: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu_client: fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("menu_client: upstream status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload menuResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("menu_client: decode failed: %w", err)
	}

	out := c.flatten(rid, &payload)
	log.Printf("[menu_client] fetched restaurantId=%s items=%d", rid, len(out.Items))
	return out, nil
}

func (c *MenuClient) flatten(rid string, payload *menuResponse) *menudom.RestaurantMenu {
	out := &menudom.RestaurantMenu{
		Restaurant: menudom.Restaurant{ID: rid},
		Items:      []menudom.Item{},
	}

	for _, card := range payload.Data.Cards {
		// Restaurant info card (first one wins).
		if info := card.Card.Card.Info; info != nil && out.Restaurant.Name == "" {
			out.Restaurant = menudom.Restaurant{
				ID:       firstNonEmpty(strings.TrimSpace(info.ID), rid),
				Name:     strings.TrimSpace(info.Name),
				Cuisines: info.Cuisines,
				Rating:   parseRating(info.AvgRating),
				Area:     strings.TrimSpace(info.AreaName),
				ImageRef: c.imageRef(info.CloudinaryImageID),
			}
		}

		// Menu sections live under the REGULAR card group.
		if card.GroupedCard == nil {
			continue
		}
		for _, section := range card.GroupedCard.CardGroupMap.Regular.Cards {
			for _, ic := range section.Card.Card.ItemCards {
				info := ic.Card.Info
				id := strings.TrimSpace(info.ID)
				if id == "" {
					continue
				}

				price := info.Price
				if price == 0 {
					price = info.DefaultPrice
				}

				out.Items = append(out.Items, menudom.Item{
					ID:          id,
					Name:        strings.TrimSpace(info.Name),
					Price:       price,
					Description: strings.TrimSpace(info.Description),
					ImageRef:    c.imageRef(info.ImageID),
					IsVeg:       info.IsVeg == 1,
				})
			}
		}
	}
	return out
}

func (c *MenuClient) imageRef(imageID string) string {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return ""
	}
	if c.cdnBase == "" {
		return imageID
	}
	return c.cdnBase + imageID
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// parseRating tolerates both "4.3" (string) and 4.3 (number).
func parseRating(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &f); err != nil {
		return 0
	}
	return f
}

// -----------------------------------------
// Upstream payload (only the fields we read)
// -----------------------------------------

type menuResponse struct {
	Data struct {
		Cards []menuCard `json:"cards"`
	} `json:"data"`
}

type menuCard struct {
	Card struct {
		Card struct {
			Info *restaurantInfo `json:"info"`
		} `json:"card"`
	} `json:"card"`

	GroupedCard *struct {
		CardGroupMap struct {
			Regular struct {
				Cards []sectionCard `json:"cards"`
			} `json:"REGULAR"`
		} `json:"cardGroupMap"`
	} `json:"groupedCard"`
}

type sectionCard struct {
	Card struct {
		Card struct {
			ItemCards []itemCard `json:"itemCards"`
		} `json:"card"`
	} `json:"card"`
}

type itemCard struct {
	Card struct {
		Info itemInfo `json:"info"`
	} `json:"card"`
}

type restaurantInfo struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Cuisines          []string        `json:"cuisines"`
	AvgRating         json.RawMessage `json:"avgRating"`
	AreaName          string          `json:"areaName"`
	CloudinaryImageID string          `json:"cloudinaryImageId"`
}

type itemInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	DefaultPrice int64  `json:"defaultPrice"`
	Description  string `json:"description"`
	ImageID      string `json:"imageId"`
	IsVeg        int    `json:"isVeg"`
}
