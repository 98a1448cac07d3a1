package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"coverhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	global := flag.NewFlagSet("coverhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 15 * time.Second}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "login":
		handleLogin(ctx, client, *baseURL, rest)
	case "pair":
		handlePair(ctx, client, *baseURL, rest)
	case "vote":
		handleVote(ctx, client, *baseURL, rest)
	case "votes":
		getAndPrint(ctx, client, *baseURL+"/api/votes")
	case "final":
		getAndPrint(ctx, client, *baseURL+"/api/final-list")
	case "analytics":
		handleAnalytics(ctx, client, *baseURL, rest)
	case "sync":
		handleSync(ctx, client, *baseURL, rest)
	case "watch":
		handleWatch(rest)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: coverhub [-api URL] <command>

commands:
  login -name NAME              resolve a reviewer name
  pair -user NAME               fetch the next pair to review
  vote -original N -candidate N -cover=true|false
                                cast a vote on a pair
  votes                         list every voted candidate
  final                         list confirmed covers
  analytics [-user NAME]        corpus or per-reviewer summary
  sync -file BATCH.json         push a scraped batch
  watch [-addr HOST:PORT]       tail the TCP event stream`)
}

func handleLogin(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	name := fs.String("name", "", "reviewer name")
	_ = fs.Parse(args)
	if *name == "" {
		log.Fatal("login: -name required")
	}

	postAndPrint(ctx, client, baseURL+"/api/login", models.LoginRequest{Name: *name})
}

func handlePair(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	user := fs.String("user", "", "reviewer name")
	_ = fs.Parse(args)
	if *user == "" {
		log.Fatal("pair: -user required")
	}

	getAndPrint(ctx, client, baseURL+"/api/pair?user="+url.QueryEscape(*user))
}

func handleVote(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("vote", flag.ExitOnError)
	original := fs.Int("original", -1, "original index")
	candidate := fs.Int("candidate", -1, "candidate index")
	cover := fs.Bool("cover", false, "vote is-a-cover")
	_ = fs.Parse(args)
	if *original < 0 || *candidate < 0 {
		log.Fatal("vote: -original and -candidate required")
	}

	postAndPrint(ctx, client, baseURL+"/api/vote", models.VoteRequest{
		OriginalIndex:  original,
		CandidateIndex: candidate,
		IsCover:        cover,
	})
}

func handleAnalytics(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("analytics", flag.ExitOnError)
	user := fs.String("user", "", "reviewer name (empty for global)")
	_ = fs.Parse(args)

	target := baseURL + "/api/analytics/global"
	if *user != "" {
		target = baseURL + "/api/analytics/user/" + url.PathEscape(*user)
	}
	getAndPrint(ctx, client, target)
}

func handleSync(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	file := fs.String("file", "", "batch JSON file")
	_ = fs.Parse(args)
	if *file == "" {
		log.Fatal("sync: -file required")
	}

	songs, err := readBatchFile(*file)
	if err != nil {
		log.Fatalf("sync: %v", err)
	}

	postAndPrint(ctx, client, baseURL+"/api/sync", models.SyncRequest{Songs: songs})
}

func handleWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:7070", "TCP event stream address")
	_ = fs.Parse(args)

	for {
		if err := watch(*addr); err != nil {
			log.Printf("[watch] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func watch(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[watch] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			// not JSON? print raw
			fmt.Println(string(line))
			continue
		}

		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

// readBatchFile accepts either a bare array of songs or a {songs:[...]}
// wrapper, so scraper dumps can be pushed unmodified.
func readBatchFile(path string) ([]models.IncomingSong, error) {
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

func getAndPrint(ctx context.Context, client *http.Client, target string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	doAndPrint(client, req)
}

func postAndPrint(ctx context.Context, client *http.Client, target string, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	doAndPrint(client, req)
}

func doAndPrint(client *http.Client, req *http.Request) {
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var obj any
	if err := json.Unmarshal(body, &obj); err != nil {
		fmt.Println(string(body))
	} else {
		pretty, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(pretty))
	}

	if resp.StatusCode >= 400 {
		os.Exit(httpExitCode(resp.StatusCode))
	}
}

func httpExitCode(status int) int {
	// keep exit codes small and scriptable
	return min(status/100, 5)
}
