// ABOUTME: Admin CLI for the HMDL DNS server management API
// ABOUTME: Drives setup, passkey auth, and domain/client/group/user administration

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/hmdl/hmdl-console/internal/api"
	"github.com/hmdl/hmdl-console/internal/authenticator"
	"github.com/hmdl/hmdl-console/internal/ceremony"
	"github.com/hmdl/hmdl-console/internal/config"
	"github.com/hmdl/hmdl-console/internal/notify"
	"github.com/hmdl/hmdl-console/internal/readiness"
	"github.com/hmdl/hmdl-console/internal/session"
	"github.com/hmdl/hmdl-console/internal/vault"
)

const banner = `
 _                   _ _             _           _
| |__  _ __ ___   __| | |        __ _| |_ __ ___ (_)_ __
| '_ \| '_ ' _ \ / _' | |_____ / _' | | '_ ' _ \| | '_ \
| | | | | | | | | (_| | |_____| (_| | | | | | | | | | | |
|_| |_|_| |_| |_|\__,_|_|      \__,_|_|_| |_| |_|_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	console, err := newConsole(cfg)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer console.close()

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "status":
		err = console.cmdStatus()
	case "setup":
		err = console.cmdSetup(args)
	case "register":
		err = console.cmdRegister(args)
	case "login":
		err = console.cmdLogin(args)
	case "logout":
		err = console.cmdLogout()
	case "whoami":
		err = console.cmdWhoami()
	case "domains":
		err = console.cmdDomains(args)
	case "domain-groups":
		err = console.cmdDomainGroups(args)
	case "clients":
		err = console.cmdClients(args)
	case "client-groups":
		err = console.cmdClientGroups(args)
	case "users":
		err = console.cmdUsers(args)
	case "roles":
		err = console.cmdRoles()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: hmdl-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  status                            Show server health and session")
	fmt.Println("  setup                             Run the first-run setup wizard")
	fmt.Println("  register <username>               Register a passkey and sign in")
	fmt.Println("  login <username>                  Sign in with a stored passkey")
	fmt.Println("  logout                            Discard the saved session")
	fmt.Println("  whoami                            Show the saved session identity")
	fmt.Println("  domains [list]                    List observed domains")
	fmt.Println("  domains rename <old> <new>        Rename a domain")
	fmt.Println("  domains assign <domain> <group>   Assign a domain to a group")
	fmt.Println("  domains unassign <domain>         Clear a domain's group")
	fmt.Println("  domains delete <domain>           Delete a domain")
	fmt.Println("  domain-groups [list|show|create|rename|delete]")
	fmt.Println("  clients [list]                    List network clients")
	fmt.Println("  clients rename <old> <new>        Rename a client")
	fmt.Println("  clients assign <client> <group>   Assign a client to a group")
	fmt.Println("  clients unassign <client>         Clear a client's group")
	fmt.Println("  clients delete <client>           Delete a client")
	fmt.Println("  client-groups [list|show|create|rename|delete|apply|unapply]")
	fmt.Println("  users [list]                      List registered users (admin)")
	fmt.Println("  users set-role <name> <role>      Change a user's role (admin)")
	fmt.Println("  users delete <name>               Delete a user (admin)")
	fmt.Println("  roles                             List assignable roles")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  HMDL_CONFIG       Path to the config file")
	fmt.Println("  HMDL_SERVER_URL   Server URL (when no config file exists)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  export HMDL_SERVER_URL=\"https://hmdl.example.com\"")
	fmt.Println("  hmdl-admin setup")
	fmt.Println("  hmdl-admin register alice")
	fmt.Println("  hmdl-admin domains assign ads.example.com blocked")
	fmt.Println("  hmdl-admin client-groups apply kids blocked")
	fmt.Println()
}

// loadConfig resolves the config file path and loads it. Without a file the
// console runs on defaults, taking the server URL from the environment.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("HMDL_CONFIG"); path != "" {
		return config.Load(path)
	}

	candidates := []string{"config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".hmdl-admin", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return config.Load(path)
		}
	}

	url := os.Getenv("HMDL_SERVER_URL")
	if url == "" {
		return nil, fmt.Errorf("no config file found: set HMDL_CONFIG or HMDL_SERVER_URL")
	}
	return config.Default(url)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// console bundles the collaborators every command needs.
type console struct {
	cfg    *config.Config
	api    *api.Client
	roles  *session.RoleStore
	toasts *notify.Queue
	tokens *session.TokenFile
	claims *session.Claims
}

func newConsole(cfg *config.Config) (*console, error) {
	client, err := api.New(cfg.Server.URL, cfg.Server.Timeout)
	if err != nil {
		return nil, err
	}

	c := &console{
		cfg:    cfg,
		api:    client,
		roles:  session.NewRoleStore(),
		toasts: notify.NewQueue(cfg.Notifications.TTL),
		tokens: session.NewTokenFile(cfg.Session.TokenPath),
	}

	// Print toasts as they are posted; the queue's expiry only matters for
	// long-lived surfaces, the CLI just wants the feed.
	c.toasts.Notify(func(t notify.Toast) {
		switch t.Severity {
		case notify.SeverityError:
			color.Red("✗ %s\n", t.Body)
		default:
			color.Green("✓ %s\n", t.Body)
		}
	})

	// Restore a saved session if one exists and has not expired.
	token, err := c.tokens.Load()
	if err == nil {
		claims, cerr := session.Inspect(token)
		if cerr == nil {
			c.api.SetSession(token)
			c.claims = claims
			c.roles.Set(claims.Role)
		}
	}

	return c, nil
}

func (c *console) close() {
	c.toasts.Close()
}

// openAuthenticator opens the passkey vault on demand; only the auth commands
// pay the SQLite cost.
func (c *console) openAuthenticator() (*authenticator.SoftKey, func(), error) {
	store, err := vault.Open(c.cfg.Vault.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening passkey vault: %w", err)
	}
	return authenticator.NewSoftKey(store, c.api.Origin()), func() { store.Close() }, nil
}

// requireAdmin gates the user-administration commands client-side. The server
// enforces this too; failing early gives a better message.
func (c *console) requireAdmin() error {
	if !c.roles.IsAdmin() {
		return fmt.Errorf("this command requires the Admin role (current: %s)", c.roles.Role())
	}
	return nil
}

// saveSession persists whatever session cookie the server issued.
func (c *console) saveSession() {
	token := c.api.SessionToken()
	if token == "" {
		return
	}
	if err := c.tokens.Save(token); err != nil {
		slog.Warn("could not save session", "error", err)
	}
}

// ============================================================================
// Status and setup
// ============================================================================

func (c *console) cmdStatus() error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()

	ctx := context.Background()
	if err := c.api.Health(ctx); err != nil {
		yellow.Printf("  Server:   ")
		color.Red("UNREACHABLE (%v)\n", err)
		fmt.Println()
		return nil
	}
	green.Printf("  Server:   ")
	fmt.Printf("%s\n", c.cfg.Server.URL)

	status, err := c.api.SetupStatus(ctx)
	if err != nil {
		yellow.Printf("  Setup:    ")
		color.Red("unknown (%v)\n", err)
	} else {
		green.Printf("  Setup:    ")
		if status.Domain != "" {
			fmt.Printf("%s (%s)\n", status.Status, status.Domain)
		} else {
			fmt.Printf("%s\n", status.Status)
		}
	}

	if c.claims != nil {
		green.Printf("  Session:  ")
		fmt.Printf("%s (%s)\n", c.claims.Subject, c.claims.Role)
	} else {
		yellow.Printf("  Session:  ")
		fmt.Println("(not signed in)")
	}

	fmt.Println()
	return nil
}

func (c *console) cmdSetup(args []string) error {
	var domain, cfToken, email string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--domain", "-d":
			if i+1 < len(args) {
				domain = args[i+1]
				i++
			}
		case "--cloudflare-token", "-t":
			if i+1 < len(args) {
				cfToken = args[i+1]
				i++
			}
		case "--email", "-e":
			if i+1 < len(args) {
				email = args[i+1]
				i++
			}
		}
	}

	reader := bufio.NewReader(os.Stdin)
	if domain == "" {
		domain = promptLine(reader, "Application domain (e.g. hmdl.example.com): ")
	}
	if cfToken == "" {
		cfToken = promptLine(reader, "Cloudflare API token: ")
	}
	if email == "" {
		email = promptLine(reader, "ACME contact email: ")
	}
	if domain == "" || cfToken == "" || email == "" {
		return fmt.Errorf("setup requires a domain, a Cloudflare API token, and an email")
	}

	ctx := context.Background()
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	// Phase 1: wait for the server to answer at all.
	cyan.Println("Waiting for the server to come up...")
	health := readiness.New(api.HealthProbe(c.api),
		c.cfg.Readiness.HealthInterval, c.cfg.Readiness.HealthAttempts)
	if status, err := health.Run(ctx); status != readiness.StatusReady {
		if err != nil {
			return fmt.Errorf("waiting for server: %w", err)
		}
		// Terminal failure: the budget ran out. This stays on screen, unlike
		// a toast.
		color.Red("The server did not come up in time. Check that it is running and reachable, then run setup again.")
		return fmt.Errorf("server not ready after %d attempts", health.Attempts())
	}
	green.Println("Server is up.")

	if status, err := c.api.SetupStatus(ctx); err == nil && status.Status == api.SetupStatusComplete {
		green.Printf("This server is already set up for %s.\n", status.Domain)
		return nil
	}

	if err := c.api.Setup(ctx, &api.SetupRequest{
		ApplicationDomain:  domain,
		CloudflareAPIToken: cfToken,
		ACMEEmail:          email,
	}); err != nil {
		c.toasts.Error("Setup request failed")
		return fmt.Errorf("submitting setup: %w", err)
	}
	c.toasts.Success("Setup submitted")

	// Phase 2: wait for certificate provisioning. ACME issuance routinely
	// takes minutes, hence the much larger budget.
	cyan.Println("Waiting for the TLS certificate (this can take a few minutes)...")
	cert := readiness.New(api.CertificateProbe(c.api),
		c.cfg.Readiness.CertificateInterval, c.cfg.Readiness.CertificateAttempts)
	if status, err := cert.Run(ctx); status != readiness.StatusReady {
		if err != nil {
			return fmt.Errorf("waiting for certificate: %w", err)
		}
		color.Red("Certificate provisioning did not complete. The server may still finish on its own; check its logs and re-run `hmdl-admin status`.")
		return fmt.Errorf("certificate not provisioned after %d attempts", cert.Attempts())
	}

	green.Printf("Setup complete! The server is now available at https://%s\n", domain)
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// ============================================================================
// Auth
// ============================================================================

func (c *console) cmdRegister(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: register <username>")
	}
	username := args[0]

	auth, closeVault, err := c.openAuthenticator()
	if err != nil {
		return err
	}
	defer closeVault()

	cer := ceremony.New(c.api, auth, c.roles, c.toasts, nil)
	role, err := cer.Register(context.Background(), username)
	if err != nil {
		return fmt.Errorf("registering %s: %w", username, err)
	}

	c.saveSession()
	fmt.Printf("Registered %s with role %s\n", username, role)
	return nil
}

func (c *console) cmdLogin(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: login <username>")
	}
	username := args[0]

	auth, closeVault, err := c.openAuthenticator()
	if err != nil {
		return err
	}
	defer closeVault()

	cer := ceremony.New(c.api, auth, c.roles, c.toasts, nil)
	if err := cer.Login(context.Background(), username); err != nil {
		return fmt.Errorf("logging in %s: %w", username, err)
	}

	c.saveSession()

	// login_finish carries no role; the session token claims do.
	role := session.RoleAnonymous
	if token := c.api.SessionToken(); token != "" {
		if claims, err := session.Inspect(token); err == nil {
			role = claims.Role
			c.roles.Set(role)
		}
	}

	fmt.Printf("Signed in as %s with role %s\n", username, role)
	return nil
}

func (c *console) cmdLogout() error {
	if err := c.tokens.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	c.roles.Set(session.RoleAnonymous)
	c.claims = nil
	c.toasts.Success("Signed out")
	return nil
}

func (c *console) cmdWhoami() error {
	token, err := c.tokens.Load()
	if errors.Is(err, session.ErrNoSession) {
		fmt.Println("Not signed in.")
		return nil
	}
	if err != nil {
		return err
	}

	claims, err := session.Inspect(token)
	if errors.Is(err, session.ErrSessionExpired) {
		color.Yellow("Session expired; run `hmdl-admin login <username>`.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("User:     %s\n", claims.Subject)
	fmt.Printf("Role:     %s\n", claims.Role)
	if !claims.ExpiresAt.IsZero() {
		fmt.Printf("Expires:  %s\n", claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// ============================================================================
// Domains
// ============================================================================

func (c *console) cmdDomains(args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	ctx := context.Background()
	switch subcmd {
	case "list", "ls":
		return c.domainsList(ctx)
	case "rename":
		if len(args) < 2 {
			return fmt.Errorf("usage: domains rename <old> <new>")
		}
		return c.domainRename(ctx, args[0], args[1])
	case "assign":
		if len(args) < 2 {
			return fmt.Errorf("usage: domains assign <domain> <group>")
		}
		return c.domainAssign(ctx, args[0], args[1])
	case "unassign":
		if len(args) < 1 {
			return fmt.Errorf("usage: domains unassign <domain>")
		}
		if err := c.api.RemoveDomainFromGroup(ctx, args[0]); err != nil {
			c.toasts.Error("Could not remove domain from its group")
			return err
		}
		c.toasts.Success("Removed " + args[0] + " from its group")
		return nil
	case "delete", "rm", "remove":
		if len(args) < 1 {
			return fmt.Errorf("usage: domains delete <domain>")
		}
		if err := c.api.DeleteDomain(ctx, args[0]); err != nil {
			c.toasts.Error("Could not delete domain")
			return err
		}
		c.toasts.Success("Deleted " + args[0])
		return nil
	default:
		return fmt.Errorf("unknown domains subcommand: %s (use list, rename, assign, unassign, delete)", subcmd)
	}
}

func (c *console) domainsList(ctx context.Context) error {
	domains, err := c.api.Domains(ctx)
	if err != nil {
		return fmt.Errorf("listing domains: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Domains")
	cyan.Println("  -------")

	if len(domains) == 0 {
		fmt.Println("  (no domains)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tGROUP\tLAST SEEN\tLAST CLIENT")
	fmt.Fprintln(w, "  ----\t-----\t---------\t-----------")
	for _, d := range domains {
		group := d.Group
		if group == "" {
			group = "-"
		}
		lastSeen := d.LastSeen
		if t, err := time.Parse(time.RFC3339, d.LastSeen); err == nil {
			lastSeen = t.Format("Jan 02 15:04")
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", d.Name, group, lastSeen, d.LastClient)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (c *console) findDomain(ctx context.Context, name string) (*api.Domain, error) {
	domains, err := c.api.Domains(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	for i := range domains {
		if domains[i].Name == name {
			return &domains[i], nil
		}
	}
	return nil, fmt.Errorf("no domain named %q", name)
}

func (c *console) domainRename(ctx context.Context, oldName, newName string) error {
	domain, err := c.findDomain(ctx, oldName)
	if err != nil {
		return err
	}
	updated := *domain
	updated.Name = newName
	if err := c.api.UpdateDomain(ctx, oldName, updated, domain.Group); err != nil {
		c.toasts.Error("Could not rename domain")
		return err
	}
	c.toasts.Success("Renamed " + oldName + " to " + newName)
	return nil
}

func (c *console) domainAssign(ctx context.Context, name, group string) error {
	domain, err := c.findDomain(ctx, name)
	if err != nil {
		return err
	}
	if err := c.api.UpdateDomain(ctx, name, *domain, group); err != nil {
		c.toasts.Error("Could not assign domain to group")
		return err
	}
	c.toasts.Success("Assigned " + name + " to " + group)
	return nil
}

// ============================================================================
// Domain groups
// ============================================================================

func (c *console) cmdDomainGroups(args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	ctx := context.Background()
	switch subcmd {
	case "list", "ls":
		names, err := c.api.DomainGroups(ctx)
		if err != nil {
			return fmt.Errorf("listing domain groups: %w", err)
		}
		printNameList("Domain Groups", names)
		return nil
	case "show":
		if len(args) < 1 {
			return fmt.Errorf("usage: domain-groups show <name>")
		}
		detail, err := c.api.DomainGroup(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching domain group: %w", err)
		}
		printNameList("Domains in "+args[0], detail.Domains)
		return nil
	case "create", "add":
		if len(args) < 1 {
			return fmt.Errorf("usage: domain-groups create <name>")
		}
		if err := c.api.CreateDomainGroup(ctx, args[0]); err != nil {
			c.toasts.Error("Could not create domain group")
			return err
		}
		c.toasts.Success("Created domain group " + args[0])
		return nil
	case "rename":
		if len(args) < 2 {
			return fmt.Errorf("usage: domain-groups rename <old> <new>")
		}
		if err := c.api.RenameDomainGroup(ctx, args[0], args[1]); err != nil {
			c.toasts.Error("Could not rename domain group")
			return err
		}
		c.toasts.Success("Renamed domain group " + args[0] + " to " + args[1])
		return nil
	case "delete", "rm", "remove":
		if len(args) < 1 {
			return fmt.Errorf("usage: domain-groups delete <name>")
		}
		if err := c.api.DeleteDomainGroup(ctx, args[0]); err != nil {
			c.toasts.Error("Could not delete domain group")
			return err
		}
		c.toasts.Success("Deleted domain group " + args[0])
		return nil
	default:
		return fmt.Errorf("unknown domain-groups subcommand: %s (use list, show, create, rename, delete)", subcmd)
	}
}

// ============================================================================
// Clients
// ============================================================================

func (c *console) cmdClients(args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	ctx := context.Background()
	switch subcmd {
	case "list", "ls":
		return c.clientsList(ctx)
	case "rename":
		if len(args) < 2 {
			return fmt.Errorf("usage: clients rename <old> <new>")
		}
		return c.clientRename(ctx, args[0], args[1])
	case "assign":
		if len(args) < 2 {
			return fmt.Errorf("usage: clients assign <client> <group>")
		}
		return c.clientAssign(ctx, args[0], args[1])
	case "unassign":
		if len(args) < 1 {
			return fmt.Errorf("usage: clients unassign <client>")
		}
		if err := c.api.RemoveClientFromGroup(ctx, args[0]); err != nil {
			c.toasts.Error("Could not remove client from its group")
			return err
		}
		c.toasts.Success("Removed " + args[0] + " from its group")
		return nil
	case "delete", "rm", "remove":
		if len(args) < 1 {
			return fmt.Errorf("usage: clients delete <client>")
		}
		if err := c.api.DeleteClient(ctx, args[0]); err != nil {
			c.toasts.Error("Could not delete client")
			return err
		}
		c.toasts.Success("Deleted " + args[0])
		return nil
	default:
		return fmt.Errorf("unknown clients subcommand: %s (use list, rename, assign, unassign, delete)", subcmd)
	}
}

func (c *console) clientsList(ctx context.Context) error {
	clients, err := c.api.Clients(ctx)
	if err != nil {
		return fmt.Errorf("listing clients: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Network Clients")
	cyan.Println("  ---------------")

	if len(clients) == 0 {
		fmt.Println("  (no clients)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tIP\tMAC\tGROUP")
	fmt.Fprintln(w, "  ----\t--\t---\t-----")
	for _, cl := range clients {
		group := cl.Group
		if group == "" {
			group = "-"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", cl.Name, cl.IP, cl.MAC, group)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (c *console) findClient(ctx context.Context, name string) (*api.NetClient, error) {
	clients, err := c.api.Clients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	for i := range clients {
		if clients[i].Name == name {
			return &clients[i], nil
		}
	}
	return nil, fmt.Errorf("no client named %q", name)
}

func (c *console) clientRename(ctx context.Context, oldName, newName string) error {
	client, err := c.findClient(ctx, oldName)
	if err != nil {
		return err
	}
	updated := *client
	updated.Name = newName
	if err := c.api.UpdateClient(ctx, oldName, updated, client.Group); err != nil {
		c.toasts.Error("Could not rename client")
		return err
	}
	c.toasts.Success("Renamed " + oldName + " to " + newName)
	return nil
}

func (c *console) clientAssign(ctx context.Context, name, group string) error {
	client, err := c.findClient(ctx, name)
	if err != nil {
		return err
	}
	if err := c.api.UpdateClient(ctx, name, *client, group); err != nil {
		c.toasts.Error("Could not assign client to group")
		return err
	}
	c.toasts.Success("Assigned " + name + " to " + group)
	return nil
}

// ============================================================================
// Client groups
// ============================================================================

func (c *console) cmdClientGroups(args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	ctx := context.Background()
	switch subcmd {
	case "list", "ls":
		names, err := c.api.ClientGroups(ctx)
		if err != nil {
			return fmt.Errorf("listing client groups: %w", err)
		}
		printNameList("Client Groups", names)
		return nil
	case "show":
		if len(args) < 1 {
			return fmt.Errorf("usage: client-groups show <name>")
		}
		return c.clientGroupShow(ctx, args[0])
	case "create", "add":
		if len(args) < 1 {
			return fmt.Errorf("usage: client-groups create <name>")
		}
		if err := c.api.CreateClientGroup(ctx, args[0]); err != nil {
			c.toasts.Error("Could not create client group")
			return err
		}
		c.toasts.Success("Created client group " + args[0])
		return nil
	case "rename":
		if len(args) < 2 {
			return fmt.Errorf("usage: client-groups rename <old> <new>")
		}
		if err := c.api.RenameClientGroup(ctx, args[0], args[1]); err != nil {
			c.toasts.Error("Could not rename client group")
			return err
		}
		c.toasts.Success("Renamed client group " + args[0] + " to " + args[1])
		return nil
	case "delete", "rm", "remove":
		if len(args) < 1 {
			return fmt.Errorf("usage: client-groups delete <name>")
		}
		if err := c.api.DeleteClientGroup(ctx, args[0]); err != nil {
			c.toasts.Error("Could not delete client group")
			return err
		}
		c.toasts.Success("Deleted client group " + args[0])
		return nil
	case "apply":
		if len(args) < 2 {
			return fmt.Errorf("usage: client-groups apply <client-group> <domain-group>")
		}
		if err := c.api.ApplyDomainGroup(ctx, args[0], args[1]); err != nil {
			c.toasts.Error("Could not apply domain group")
			return err
		}
		c.toasts.Success("Applied " + args[1] + " to " + args[0])
		return nil
	case "unapply":
		if len(args) < 2 {
			return fmt.Errorf("usage: client-groups unapply <client-group> <domain-group>")
		}
		if err := c.api.RemoveAppliedDomainGroup(ctx, args[0], args[1]); err != nil {
			c.toasts.Error("Could not remove applied domain group")
			return err
		}
		c.toasts.Success("Removed " + args[1] + " from " + args[0])
		return nil
	default:
		return fmt.Errorf("unknown client-groups subcommand: %s (use list, show, create, rename, delete, apply, unapply)", subcmd)
	}
}

func (c *console) clientGroupShow(ctx context.Context, name string) error {
	detail, err := c.api.ClientGroup(ctx, name)
	if err != nil {
		return fmt.Errorf("fetching client group: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Client Group: %s\n", name)
	cyan.Println("  " + strings.Repeat("-", 14+len(name)))

	fmt.Println("  Clients:")
	if len(detail.Clients) == 0 {
		fmt.Println("    (none)")
	}
	for _, cl := range detail.Clients {
		fmt.Printf("    %s\t%s\n", cl.Name, cl.IP)
	}

	fmt.Println("  Applied domain groups:")
	if len(detail.DomainGroups) == 0 {
		fmt.Println("    (none)")
	}
	for _, g := range detail.DomainGroups {
		fmt.Printf("    %s\n", g)
	}
	fmt.Println()
	return nil
}

// ============================================================================
// Users and roles
// ============================================================================

func (c *console) cmdUsers(args []string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}

	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	ctx := context.Background()
	switch subcmd {
	case "list", "ls":
		return c.usersList(ctx)
	case "set-role":
		if len(args) < 2 {
			return fmt.Errorf("usage: users set-role <name> <role>")
		}
		return c.userSetRole(ctx, args[0], args[1])
	case "delete", "rm", "remove":
		if len(args) < 1 {
			return fmt.Errorf("usage: users delete <name>")
		}
		if err := c.api.DeleteUser(ctx, args[0]); err != nil {
			c.toasts.Error("Could not delete user")
			return err
		}
		c.toasts.Success("Deleted user " + args[0])
		return nil
	default:
		return fmt.Errorf("unknown users subcommand: %s (use list, set-role, delete)", subcmd)
	}
}

func (c *console) usersList(ctx context.Context) error {
	users, err := c.api.Users(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Users")
	cyan.Println("  -----")

	if len(users) == 0 {
		fmt.Println("  (no users)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tID\tROLE")
	fmt.Fprintln(w, "  ----\t--\t----")
	for _, u := range users {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", u.DisplayName, u.ID, u.Role)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (c *console) userSetRole(ctx context.Context, name, roleName string) error {
	role, err := session.ParseRole(roleName)
	if err != nil {
		return err
	}

	users, err := c.api.Users(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	for _, u := range users {
		if u.DisplayName == name {
			u.Role = role
			if err := c.api.UpdateUser(ctx, name, u); err != nil {
				c.toasts.Error("Could not change role")
				return err
			}
			c.toasts.Success("Set role of " + name + " to " + string(role))
			return nil
		}
	}
	return fmt.Errorf("no user named %q", name)
}

func (c *console) cmdRoles() error {
	roles, err := c.api.Roles(context.Background())
	if err != nil {
		return fmt.Errorf("listing roles: %w", err)
	}

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	printNameList("Roles", names)
	return nil
}

func printNameList(title string, names []string) {
	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  " + title)
	cyan.Println("  " + strings.Repeat("-", len(title)))

	if len(names) == 0 {
		fmt.Println("  (none)")
		fmt.Println()
		return
	}
	for _, name := range names {
		fmt.Println("  " + name)
	}
	fmt.Println()
}
