// Command medgamma-cli is a small terminal client for the MedGamma server,
// mainly useful for poking at a local instance without a frontend.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	baseURL   string
	mode      string
	authToken string

	lastChatID string
	reader     = bufio.NewReader(os.Stdin)
	client     = &http.Client{Timeout: 30 * time.Second}
)

func main() {
	flag.StringVar(&baseURL, "server", "http://localhost:8000", "server base URL")
	flag.StringVar(&mode, "mode", "medgamma", "chat mode (general or medgamma)")
	flag.Parse()

	fmt.Println("MedGamma CLI. Connected to", baseURL)
	for {
		printMenu()
	}
}

func printMenu() {
	fmt.Println("\n=== Menu ===")
	fmt.Println("1. New Chat")
	if lastChatID != "" {
		fmt.Printf("2. Resume Chat (%s)\n", lastChatID)
	} else {
		fmt.Println("2. Resume Chat (none yet)")
	}
	fmt.Println("3. View History")
	fmt.Println("4. Upload PDF")
	fmt.Println("5. Trigger Emergency Alert")
	fmt.Println("6. Login")
	fmt.Println("7. Exit")
	fmt.Print("> ")

	choice, err := reader.ReadString('\n')
	if err != nil {
		os.Exit(0)
	}

	switch strings.TrimSpace(choice) {
	case "1":
		handleNewChat()
	case "2":
		if lastChatID == "" {
			fmt.Println("No chat to resume, start a new one.")
			return
		}
		chatLoop(lastChatID)
	case "3":
		handleHistory()
	case "4":
		handleUpload()
	case "5":
		handleEmergency()
	case "6":
		handleLogin()
	case "7":
		fmt.Println("Goodbye!")
		os.Exit(0)
	default:
		fmt.Println("Invalid choice")
	}
}

func prompt(label string) string {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		os.Exit(0)
	}
	return strings.TrimSpace(input)
}

func newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	return req, nil
}

func handleLogin() {
	username := prompt("Username: ")
	password := prompt("Password: ")

	jsonData, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := client.Post(baseURL+"/auth/login", "application/json", bytes.NewReader(jsonData))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Login failed: %s\n", string(body))
		return
	}

	var result struct {
		JwtToken string `json:"jwt_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.JwtToken == "" {
		fmt.Println("Login failed: empty token")
		return
	}
	authToken = result.JwtToken
	fmt.Println("Login successful!")
}

func handleNewChat() {
	req, err := newRequest(http.MethodPost, "/chat/new", nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Failed to create chat: %s\n", string(body))
		return
	}

	var result struct {
		UUID string `json:"uuid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	lastChatID = result.UUID
	fmt.Printf("Chat created: %s\n", lastChatID)
	chatLoop(lastChatID)
}

func chatLoop(chatID string) {
	fmt.Println("Type 'exit' to leave the chat.")
	for {
		msg := prompt("You: ")
		if msg == "exit" {
			return
		}
		if msg == "" {
			continue
		}
		streamMessage(chatID, msg)
	}
}

func streamMessage(chatID, message string) {
	jsonData, _ := json.Marshal(map[string]string{
		"message": message,
		"mode":    mode,
	})
	req, err := newRequest(http.MethodPost, "/chat/"+chatID+"/message", bytes.NewReader(jsonData))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	// No timeout while the reply streams.
	streamClient := &http.Client{Timeout: 0}
	resp, err := streamClient.Do(req)
	if err != nil {
		fmt.Printf("Error sending message: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Error: %s\n", string(body))
		return
	}

	fmt.Print("Bot: ")
	buf := make([]byte, 512)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			fmt.Print(string(buf[:n]))
		}
		if err != nil {
			break
		}
	}
	fmt.Println()
}

func handleHistory() {
	chatID := askChatID()
	if chatID == "" {
		return
	}

	req, err := newRequest(http.MethodGet, "/chat/"+chatID, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Println("Failed to retrieve history")
		return
	}

	var result struct {
		Messages []struct {
			Text      string `json:"text"`
			Sender    string `json:"sender"`
			Timestamp string `json:"timestamp"`
		} `json:"messages"`
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if result.Summary != "" {
		fmt.Printf("Summary: %s\n---\n", result.Summary)
	}
	for _, msg := range result.Messages {
		fmt.Printf("[%s] %s: %s\n", msg.Timestamp, msg.Sender, msg.Text)
	}
}

func handleUpload() {
	chatID := askChatID()
	if chatID == "" {
		return
	}
	path := prompt("PDF path: ")
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if _, err := io.Copy(fw, f); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	mw.Close()

	req, err := newRequest(http.MethodPost, "/chat/"+chatID+"/upload", &buf)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
}

func handleEmergency() {
	severity := prompt("Severity (medium/critical, empty for critical): ")
	location := prompt("Location (optional): ")

	jsonData, _ := json.Marshal(map[string]string{
		"severity": severity,
		"location": location,
	})
	req, err := newRequest(http.MethodPost, "/emergency/trigger", bytes.NewReader(jsonData))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
}

func askChatID() string {
	label := "Chat ID"
	if lastChatID != "" {
		label += fmt.Sprintf(" (default: %s)", lastChatID)
	}
	chatID := prompt(label + ": ")
	if chatID == "" {
		chatID = lastChatID
	}
	if chatID == "" {
		fmt.Println("Chat ID is required")
	}
	return chatID
}
