package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"coverhub/internal/ingest"
	"coverhub/pkg/models"
)

// sync-push uploads a scraped batch file to the API. When the server runs
// with a sync secret, the same secret must be provided here (flag or
// COVERHUB_SYNC_SECRET) so a bearer token can be minted.
func main() {
	api := flag.String("api", "http://localhost:8080", "API base URL")
	file := flag.String("file", "", "batch JSON file")
	secret := flag.String("secret", os.Getenv("COVERHUB_SYNC_SECRET"), "shared sync secret")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file required")
	}

	songs, err := readBatch(*file)
	if err != nil {
		log.Fatalf("read batch: %v", err)
	}
	log.Printf("pushing %d entries from %s", len(songs), *file)

	payload, err := json.Marshal(models.SyncRequest{Songs: songs})
	if err != nil {
		log.Fatalf("marshal batch: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, *api+"/api/sync", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if *secret != "" {
		token, err := ingest.SignSyncToken([]byte(*secret), 5*time.Minute)
		if err != nil {
			log.Fatalf("sign token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("push failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("push rejected (%d): %s", resp.StatusCode, body)
	}

	var out models.SyncResponse
	if err := json.Unmarshal(body, &out); err != nil {
		fmt.Println(string(body))
		return
	}
	log.Printf("done: %s", out.Message)
}

func readBatch(path string) ([]models.IncomingSong, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var songs []models.IncomingSong
	if err := json.Unmarshal(b, &songs); err == nil {
		return songs, nil
	}

	var wrapped models.SyncRequest
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return wrapped.Songs, nil
}
