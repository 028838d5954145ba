// cmd/proxy/main.go
//
// Local development proxy for the upstream menu API. The upstream rejects
// datacenter traffic, so requests are forwarded with a spoofed
// x-forwarded-for header and a permissive CORS header on the way back.
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
)

func main() {
	upstreamRaw := getenvDefault("PROXY_UPSTREAM", "https://www.swiggy.com")
	port := getenvDefault("PROXY_PORT", "4000")

	upstream, err := url.Parse(upstreamRaw)
	if err != nil {
		log.Fatalf("[proxy] invalid PROXY_UPSTREAM %q: %v", upstreamRaw, err)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			// Strip the local mount prefix before forwarding.
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, "/swiggy")
			if pr.Out.URL.Path == "" {
				pr.Out.URL.Path = "/"
			}
			pr.Out.Host = upstream.Host
			pr.Out.Header.Set("x-forwarded-for", "1.1.1.1")
		},
		ModifyResponse: func(resp *http.Response) error {
			resp.Header.Set("Access-Control-Allow-Origin", "*")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("[proxy] upstream error path=%s: %v", r.URL.Path, err)
			http.Error(w, "Proxy error", http.StatusInternalServerError)
		},
	}

	mux := http.NewServeMux()
	mux.Handle("/swiggy/", proxy)
	mux.Handle("/swiggy", proxy)

	log.Printf("[proxy] running on http://localhost:%s (upstream=%s)", port, upstream)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("[proxy] server error: %v", err)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
