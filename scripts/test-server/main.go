package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// sendRequest mirrors the payload volley sends.
type sendRequest struct {
	Message string `json:"message"`
	Number  string `json:"number"`
}

func main() {
	addr := flag.String("addr", ":3001", "Address to listen on")
	latency := flag.Duration("latency", 0, "Artificial delay before responding")
	failEvery := flag.Int("fail-every", 0, "Fail every Nth send with a 500 (0 disables)")
	flag.Parse()

	var count atomic.Int64

	http.HandleFunc("/send-message", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"missing or invalid token"}`)
			return
		}

		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid payload"}`)
			return
		}

		if *latency > 0 {
			time.Sleep(*latency)
		}

		n := count.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if *failEvery > 0 && n%int64(*failEvery) == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"gateway overloaded"}`)
			return
		}

		fmt.Fprintf(w, `{"status":"sent","id":"msg-%06d","number":%q}`, n, req.Number)
	})

	// Health check
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "healthy")
	})

	server := &http.Server{
		Addr:              *addr,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Printf("Starting fake send-message gateway on %s", *addr)
	if *latency > 0 {
		log.Printf("Responding with %s artificial latency", *latency)
	}
	if *failEvery > 0 {
		log.Printf("Failing every %d sends", *failEvery)
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
