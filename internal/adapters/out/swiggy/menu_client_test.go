// internal/adapters/out/swiggy/menu_client_test.go
package swiggy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMenuPayload = `{
  "data": {
    "cards": [
      {
        "card": {
          "card": {
            "info": {
              "id": "12345",
              "name": "Dosa Corner",
              "cuisines": ["South Indian", "Snacks"],
              "avgRating": "4.3",
              "areaName": "Andheri West",
              "cloudinaryImageId": "rest-img-1"
            }
          }
        }
      },
      {
        "card": {"card": {}},
        "groupedCard": {
          "cardGroupMap": {
            "REGULAR": {
              "cards": [
                {"card": {"card": {}}},
                {
                  "card": {
                    "card": {
                      "itemCards": [
                        {
                          "card": {
                            "info": {
                              "id": "i1",
                              "name": "Masala Dosa",
                              "price": 12000,
                              "description": "Crisp and spicy",
                              "imageId": "img-1",
                              "isVeg": 1
                            }
                          }
                        },
                        {
                          "card": {
                            "info": {
                              "id": "i2",
                              "name": "Chicken Roll",
                              "defaultPrice": 18000,
                              "isVeg": 0
                            }
                          }
                        },
                        {"card": {"info": {"id": ""}}}
                      ]
                    }
                  }
                }
              ]
            }
          }
        }
      }
    ]
  }
}`

func TestMenuClient_FetchMenu(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dapi/menu/pl", r.URL.Path)
		assert.Equal(t, "12345", r.URL.Query().Get("restaurantId"))
		assert.Equal(t, "REGULAR_MENU", r.URL.Query().Get("page-type"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lng"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleMenuPayload))
	}))
	defer srv.Close()

	c := NewMenuClient(srv.URL, "https://cdn.example/", "", "")

	menu, err := c.FetchMenu(context.Background(), "12345")
	require.NoError(t, err)

	assert.Equal(t, "12345", menu.Restaurant.ID)
	assert.Equal(t, "Dosa Corner", menu.Restaurant.Name)
	assert.Equal(t, []string{"South Indian", "Snacks"}, menu.Restaurant.Cuisines)
	assert.InDelta(t, 4.3, menu.Restaurant.Rating, 0.001)
	assert.Equal(t, "Andheri West", menu.Restaurant.Area)
	assert.Equal(t, "https://cdn.example/rest-img-1", menu.Restaurant.ImageRef)

	// The blank-id item card is skipped.
	require.Len(t, menu.Items, 2)

	assert.Equal(t, "i1", menu.Items[0].ID)
	assert.Equal(t, "Masala Dosa", menu.Items[0].Name)
	assert.Equal(t, int64(12000), menu.Items[0].Price)
	assert.Equal(t, "https://cdn.example/img-1", menu.Items[0].ImageRef)
	assert.True(t, menu.Items[0].IsVeg)

	// defaultPrice backfills a missing price.
	assert.Equal(t, "i2", menu.Items[1].ID)
	assert.Equal(t, int64(18000), menu.Items[1].Price)
	assert.False(t, menu.Items[1].IsVeg)
}

func TestMenuClient_FetchMenu_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewMenuClient(srv.URL, "", "", "")

	_, err := c.FetchMenu(context.Background(), "12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
}

func TestMenuClient_FetchMenu_EmptyRestaurantID(t *testing.T) {
	c := NewMenuClient("http://localhost:4000/swiggy", "", "", "")

	_, err := c.FetchMenu(context.Background(), "  ")
	require.Error(t, err)
}

func TestParseRating(t *testing.T) {
	assert.InDelta(t, 4.3, parseRating(json.RawMessage(`4.3`)), 0.001)
	assert.InDelta(t, 4.3, parseRating(json.RawMessage(`"4.3"`)), 0.001)
	assert.Zero(t, parseRating(json.RawMessage(`"--"`)))
	assert.Zero(t, parseRating(nil))
}
