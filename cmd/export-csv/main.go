package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"coverhub/pkg/models"
)

// export-csv dumps the confirmed-covers final list as CSV, one row per
// confirmed candidate.
func main() {
	api := flag.String("api", "http://localhost:8080", "API base URL")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(*api + "/api/final-list")
	if err != nil {
		log.Fatalf("fetch final list: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("fetch final list: status %d", resp.StatusCode)
	}

	var songs []models.Original
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		log.Fatalf("decode final list: %v", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	header := []string{
		"song_number", "original_id", "original_title", "assigned_user",
		"candidate_id", "candidate_title", "uploader", "url", "votes_yes", "votes_no",
	}
	if err := cw.Write(header); err != nil {
		log.Fatalf("write header: %v", err)
	}

	rows := 0
	for _, song := range songs {
		for _, cand := range song.CandidateCovers {
			record := []string{
				strconv.Itoa(song.SongNumber),
				song.OriginalID,
				song.OriginalTitle,
				song.AssignedUser,
				cand.ID,
				cand.Title,
				cand.Uploader,
				cand.URL,
				strconv.Itoa(cand.IsCoverVotes),
				strconv.Itoa(cand.IsNotCoverVotes),
			}
			if err := cw.Write(record); err != nil {
				log.Fatalf("write row: %v", err)
			}
			rows++
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Fatalf("flush csv: %v", err)
	}

	fmt.Fprintf(os.Stderr, "exported %d confirmed covers from %d originals\n", rows, len(songs))
}
