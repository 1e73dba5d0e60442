package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Walk a running server through sign-up, profile setup and the dashboard",
	RunE:  run,
}

func init() {
	rootCmd.Flags().String("base-url", "http://localhost:3000/api", "API base URL")
	rootCmd.Flags().Bool("verbose", false, "print every response body")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type client struct {
	baseURL string
	token   string
	verbose bool
	http    *http.Client
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *client) send(method, path string, body interface{}) (int, envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, envelope{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, envelope{}, err
	}
	if c.verbose {
		var pretty bytes.Buffer
		if json.Indent(&pretty, raw, "", "  ") == nil {
			fmt.Println(pretty.String())
		}
	}
	var env envelope
	json.Unmarshal(raw, &env)
	return resp.StatusCode, env, nil
}

// step runs one request and fails the walk when the status is unexpected.
func (c *client) step(title string, want int, method, path string, body interface{}) (envelope, error) {
	color.Yellow("\n%s", title)
	code, env, err := c.send(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		return env, err
	}
	if code != want {
		color.Red("Status: %d (want %d) %s", code, want, env.Message)
		return env, fmt.Errorf("%s: status %d", title, code)
	}
	color.Green("Status: %d %s", code, env.Message)
	return env, nil
}

func run(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("base-url")
	verbose, _ := cmd.Flags().GetBool("verbose")
	c := &client{baseURL: baseURL, verbose: verbose, http: &http.Client{Timeout: 30 * time.Second}}

	color.Cyan("🚀 Starting dashboard smoke walk against %s", baseURL)

	email := fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8])
	env, err := c.step("1. Sign up "+email, http.StatusCreated, "POST", "/auth/signup", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if err != nil {
		return err
	}
	var auth struct {
		AccessToken string `json:"access_token"`
		Redirect    string `json:"redirect"`
	}
	json.Unmarshal(env.Data, &auth)
	c.token = auth.AccessToken
	color.White("Redirect: %s", auth.Redirect)

	if _, err := c.step("2. Dashboard before profile is gated", http.StatusForbidden, "GET", "/dashboard", nil); err != nil {
		return err
	}

	if _, err := c.step("3. Complete profile", http.StatusOK, "PUT", "/profile", map[string]interface{}{
		"name":     "Smoke Tester",
		"standard": "10",
		"subjects": []string{"physics", "chemistry"},
	}); err != nil {
		return err
	}

	if _, err := c.step("4. Profile setup now redirects", http.StatusConflict, "PUT", "/profile", map[string]interface{}{
		"name":     "Smoke Tester",
		"standard": "10",
		"subjects": []string{"physics"},
	}); err != nil {
		return err
	}

	env, err = c.step("5. Load dashboard", http.StatusOK, "GET", "/dashboard", nil)
	if err != nil {
		return err
	}
	var dash struct {
		Content struct {
			Title  string   `json:"title"`
			Topics []string `json:"topics"`
		} `json:"content"`
		Alert string `json:"alert"`
	}
	json.Unmarshal(env.Data, &dash)
	color.White("Content: %s (%d topics) %s", dash.Content.Title, len(dash.Content.Topics), dash.Alert)

	if _, err := c.step("6. Open add-module dialog", http.StatusOK, "POST", "/overlay/dialog", map[string]string{"kind": "module"}); err != nil {
		return err
	}
	if _, err := c.step("7. Fill draft", http.StatusOK, "PATCH", "/overlay/dialog", map[string]string{
		"name":        "Smoke Module",
		"description": "created by the smoke walk",
	}); err != nil {
		return err
	}
	if _, err := c.step("8. Save dialog", http.StatusOK, "POST", "/overlay/dialog/save", nil); err != nil {
		return err
	}

	if _, err := c.step("9. Ask the assistant", http.StatusOK, "POST", "/assistant/messages", map[string]string{"message": "What is an acid?"}); err != nil {
		return err
	}

	if _, err := c.step("10. Log out", http.StatusOK, "POST", "/auth/logout", nil); err != nil {
		return err
	}
	if _, err := c.step("11. Token is revoked", http.StatusUnauthorized, "GET", "/dashboard", nil); err != nil {
		return err
	}

	color.Cyan("\n✅ Smoke walk completed")
	return nil
}
