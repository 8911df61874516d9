// Package main provides a terminal client that prints low-stock alerts
// pushed over the /ws/stock socket.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"implantstock/internal/middleware"
	"implantstock/internal/notifications"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8080", "Server host")
	username := flag.String("user", "user", "Account username")
	password := flag.String("password", "", "Account password")
	secure := flag.Bool("tls", false, "Use https and wss")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	httpScheme, wsScheme := "http", "ws"
	if *secure {
		httpScheme, wsScheme = "https", "wss"
	}

	session, err := login(httpScheme, *host, *username, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s", *username)

	u := url.URL{Scheme: wsScheme, Host: *host, Path: "/ws/stock"}
	header := http.Header{}
	header.Set("Cookie", (&http.Cookie{Name: middleware.SessionCookieName, Value: session}).String())

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			log.Fatalf("Dial failed with status %d: %v", resp.StatusCode, err)
		}
		log.Fatalf("Dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()
	log.Printf("Watching %s for low-stock alerts", u.String())

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("Read error: %v", err)
				}
				return
			}
			printAlert(data)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

// login posts the login form and returns the session cookie value. The
// redirect that follows a successful login is not followed.
func login(scheme, host, username, password string) (string, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s://%s/login", scheme, host), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusSeeOther {
		return "", fmt.Errorf("login answered with status %d", resp.StatusCode)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("no session cookie in login response")
}

func printAlert(data []byte) {
	var alert notifications.StockAlert
	if err := json.Unmarshal(data, &alert); err != nil {
		log.Printf("Unreadable message: %s", data)
		return
	}
	log.Printf("LOW STOCK %s %s: %d left (minimum %d)", alert.Brand, alert.Size, alert.Stock, alert.MinStock)
}
