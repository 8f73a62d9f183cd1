package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net"
	"os"
	"time"
)

// Record is one generated log line. Several records share an EventID when
// an event is split into correlated sub-contributions.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	Service    string    `json:"service"`
	Route      int       `json:"route"`
	DurationMs float64   `json:"duration_ms"`
	Bytes      int       `json:"bytes"`
	EventID    int64     `json:"event_id"`
	Weight     float64   `json:"weight"`
	WeightUp   float64   `json:"weight_up"`
	WeightDown float64   `json:"weight_down"`
}

func dial(host string, port, retries int, interval time.Duration) (net.Conn, error) {
	var conn net.Conn
	var err error
	log.Printf("Attempting to connect to %s:%d", host, port)
	for i := 0; i < retries; i++ {
		conn, err = net.Dial("tcp", fmt.Sprintf("%s:%d", host, port))
		if err == nil {
			log.Printf("Successfully connected to %s:%d", host, port)
			return conn, nil
		}
		log.Printf("Connection attempt %d failed: %v. Retrying in %v...", i+1, err, interval)
		time.Sleep(interval)
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", retries, err)
}

func main() {
	host := flag.String("host", "fluent-bit", "Host to connect to")
	port := flag.Int("port", 5170, "Port to send data to")
	eventsPerSecond := flag.Int("eps", 100, "Events per second to generate")
	maxParts := flag.Int("parts", 3, "Maximum sub-contributions per event")
	maxRetries := flag.Int("retries", 30, "Maximum number of connection retries")
	retryInterval := flag.Duration("retry-interval", 2*time.Second, "Time between retries")
	flag.Parse()

	// Override host from environment if provided
	if envHost := os.Getenv("FLUENT_HOST"); envHost != "" {
		*host = envHost
	}

	conn, err := dial(*host, *port, *maxRetries, *retryInterval)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { conn.Close() }()

	services := []string{"api", "web", "auth", "db"}

	ticker := time.NewTicker(time.Second / time.Duration(*eventsPerSecond))
	defer ticker.Stop()

	log.Printf("Starting to generate %d events per second...", *eventsPerSecond)

	var eventID int64
	for range ticker.C {
		eventID++
		service := rand.Intn(len(services))
		// log-normal durations centered around 20ms
		duration := math.Exp(3 + 0.8*rand.NormFloat64())

		// an event is emitted as consecutive records sharing its id; the
		// weights of the parts may cancel
		parts := 1 + rand.Intn(*maxParts)
		for p := 0; p < parts; p++ {
			weight := rand.NormFloat64()
			rec := Record{
				Timestamp:  time.Now(),
				Service:    services[service],
				Route:      rand.Intn(4),
				DurationMs: duration,
				Bytes:      rand.Intn(64 * 1024),
				EventID:    eventID,
				Weight:     weight,
				WeightUp:   weight * 1.1,
				WeightDown: weight * 0.9,
			}

			data, err := json.Marshal(rec)
			if err != nil {
				log.Printf("Failed to marshal record: %v", err)
				continue
			}
			// newline delimited for the fluent-bit tcp input
			data = append(data, '\n')

			if _, err := conn.Write(data); err != nil {
				log.Printf("Failed to write to socket: %v", err)
				conn.Close()
				if conn, err = dial(*host, *port, *maxRetries, *retryInterval); err != nil {
					log.Fatal(err)
				}
			}
		}
	}
}
