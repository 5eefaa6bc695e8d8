package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Basit batch upload istemcisi: dosyaları async endpoint'e gönderir, progress
// endpoint'ini poll eder, terminal statüden sonra entry'yi temizler.
// Transfer hataları bir kez baştan denenir (retry sunucunun değil çağıranın işi).

type progressEntry struct {
	UploadID   string `json:"upload_id"`
	Status     string `json:"status"`
	Percentage int    `json:"percentage"`
	Stage      string `json:"stage"`
	Error      string `json:"error,omitempty"`
}

type clientOptions struct {
	server      string
	token       string
	description string
	category    string
	tags        string
	visibility  string
	concurrency int
}

func main() {
	opts := clientOptions{}
	flag.StringVar(&opts.server, "server", "http://localhost:3000", "Upload server address")
	flag.StringVar(&opts.token, "token", "", "Bearer token")
	flag.StringVar(&opts.description, "description", "", "Description for all files")
	flag.StringVar(&opts.category, "category", "", "Category for all files")
	flag.StringVar(&opts.tags, "tags", "", "Comma separated tags")
	flag.StringVar(&opts.visibility, "visibility", "private", "private or public")
	flag.IntVar(&opts.concurrency, "concurrency", 3, "Max concurrent uploads")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal("Kullanım: client [flags] dosya1 dosya2 ...")
	}

	sem := make(chan struct{}, opts.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := uploadWithRetry(opts, path); err != nil {
				mu.Lock()
				failed = append(failed, fmt.Sprintf("%s: %v", filepath.Base(path), err))
				mu.Unlock()
			}
		}(path)
	}
	wg.Wait()

	if len(failed) > 0 {
		log.Fatalf("Başarısız yüklemeler:\n%s", strings.Join(failed, "\n"))
	}
	log.Printf("%d dosyanın tamamı yüklendi", len(paths))
}

func uploadWithRetry(opts clientOptions, path string) error {
	err := uploadFile(opts, path)
	if err != nil && strings.Contains(err.Error(), "transfer_failed") {
		log.Printf("%s: transfer hatası, baştan deneniyor", filepath.Base(path))
		err = uploadFile(opts, path)
	}
	return err
}

func uploadFile(opts clientOptions, path string) error {
	uploadID, err := startUpload(opts, path)
	if err != nil {
		return err
	}
	defer clearProgress(opts, uploadID)

	// Progress poll döngüsü
	for {
		time.Sleep(300 * time.Millisecond)

		entry, err := fetchProgress(opts, uploadID)
		if err != nil {
			return err
		}

		log.Printf("%s [%s] %d%% - %s", filepath.Base(path), entry.Status, entry.Percentage, entry.Stage)

		switch entry.Status {
		case "completed":
			return nil
		case "error":
			return fmt.Errorf("%s", entry.Error)
		}
	}
}

func startUpload(opts clientOptions, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}

	_ = writer.WriteField("description", opts.description)
	_ = writer.WriteField("category", opts.category)
	_ = writer.WriteField("tags", opts.tags)
	_ = writer.WriteField("visibility", opts.visibility)

	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, opts.server+"/api/v1/upload/async", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload başlatılamadı (%d): %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		UploadID string `json:"upload_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.UploadID, nil
}

func fetchProgress(opts clientOptions, uploadID string) (*progressEntry, error) {
	resp, err := http.Get(opts.server + "/api/v1/upload/progress/" + uploadID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("progress okunamadı (%d)", resp.StatusCode)
	}

	var entry progressEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func clearProgress(opts clientOptions, uploadID string) {
	req, err := http.NewRequest(http.MethodDelete, opts.server+"/api/v1/upload/progress/"+uploadID, nil)
	if err != nil {
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("Progress entry %s temizlenemedi: %v", uploadID, err)
		return
	}
	resp.Body.Close()
}
