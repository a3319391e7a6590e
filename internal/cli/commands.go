// Package cli provides the Cobra-based CLI for driving list editor
// sessions against a running server. Each command performs a single
// session operation and prints the resulting snapshot, making the tool
// composable for scripts.
package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"merchlist/internal/model"
	"merchlist/internal/session"
)

var (
	rootCmd = &cobra.Command{
		Use:   "listclient",
		Short: "Product list editor session client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// IMPORTANT: allow tests to inject the client
			if api != nil {
				return nil
			}

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			lvlStr := strings.ToLower(viper.GetString("log-level"))
			lvl := slog.LevelInfo
			switch lvlStr {
			case "debug":
				lvl = slog.LevelDebug
			case "warn", "warning":
				lvl = slog.LevelWarn
			case "error":
				lvl = slog.LevelError
			}
			slog.SetDefault(slog.New(
				slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
			))

			api = newClient(strings.TrimSuffix(viper.GetString("server"), "/"))
			return nil
		},
	}

	api *client
)

func init() {
	// shell
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("listclient> ")
				line, err := r.ReadString('\n')
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}
				rootCmd.SetArgs(strings.Fields(line))
				if err := rootCmd.Execute(); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				rootCmd.SetArgs(nil)
			}
		},
	}
	rootCmd.AddCommand(shellCmd)

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "session API base URL")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().String("output", "json", "output format: json|text")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.SetEnvPrefix("MERCHLIST")
	viper.AutomaticEnv()

	// create
	var seedFile string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session, optionally seeded from a JSON product list",
		RunE: func(cmd *cobra.Command, args []string) error {
			var body interface{}
			if seedFile != "" {
				data, err := os.ReadFile(seedFile)
				if err != nil {
					return err
				}
				var products []model.Product
				if err := json.Unmarshal(data, &products); err != nil {
					return fmt.Errorf("parsing seed file: %w", err)
				}
				body = map[string]interface{}{"products": products}
			}

			var resp struct {
				ID       string           `json:"id"`
				Snapshot session.Snapshot `json:"snapshot"`
			}
			if err := api.do(http.MethodPost, "/sessions", body, &resp); err != nil {
				return err
			}
			fmt.Println(resp.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&seedFile, "seed", "", "JSON file with an initial product list")
	rootCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get <session-id>",
		Short: "Get the session snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap session.Snapshot
			if err := api.do(http.MethodGet, sessionPath(args[0]), nil, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	rootCmd.AddCommand(getCmd)

	// delete
	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Discard a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Printf("Delete %s? (y/N): ", args[0])
				var resp string
				if _, err := fmt.Scanln(&resp); err != nil || (resp != "y" && resp != "Y") {
					fmt.Println("aborted")
					return nil
				}
			}
			if err := api.do(http.MethodDelete, sessionPath(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	rootCmd.AddCommand(deleteCmd)

	// reorder
	var active, over string
	reorderCmd := &cobra.Command{
		Use:   "reorder <session-id> --active <scope:id> --over <scope:id>",
		Short: "Apply a drag-and-drop move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activeRef, err := parseRef(active)
			if err != nil {
				return err
			}
			overRef, err := parseRef(over)
			if err != nil {
				return err
			}

			body := map[string]interface{}{"active": activeRef, "over": overRef}
			var snap session.Snapshot
			if err := api.do(http.MethodPost, sessionPath(args[0])+"/reorder", body, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	reorderCmd.Flags().StringVar(&active, "active", "", "dragged item as scope:id, e.g. product:12")
	reorderCmd.Flags().StringVar(&over, "over", "", "drop target as scope:id")
	reorderCmd.MarkFlagRequired("active")
	reorderCmd.MarkFlagRequired("over")
	rootCmd.AddCommand(reorderCmd)

	// discount
	var dProduct, dVariant int64
	var dField, dValue string
	discountCmd := &cobra.Command{
		Use:   "discount <session-id>",
		Short: "Edit a product or variant discount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (dProduct == 0) == (dVariant == 0) {
				return errors.New("exactly one of --product or --variant required")
			}

			path := sessionPath(args[0])
			if dProduct != 0 {
				path += "/products/" + strconv.FormatInt(dProduct, 10) + "/discount"
			} else {
				path += "/variants/" + strconv.FormatInt(dVariant, 10) + "/discount"
			}

			body := map[string]string{"field": dField, "value": dValue}
			var snap session.Snapshot
			if err := api.do(http.MethodPut, path, body, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	discountCmd.Flags().Int64Var(&dProduct, "product", 0, "product id (cascades to variants)")
	discountCmd.Flags().Int64Var(&dVariant, "variant", 0, "variant id")
	discountCmd.Flags().StringVar(&dField, "field", "amount", "field: amount|kind")
	discountCmd.Flags().StringVar(&dValue, "value", "", "new value")
	rootCmd.AddCommand(discountCmd)

	// remove
	var rProduct, rVariant int64
	removeCmd := &cobra.Command{
		Use:   "remove <session-id> --product ID [--variant ID]",
		Short: "Remove a product or one of its variants from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rProduct == 0 {
				return errors.New("--product required")
			}

			path := sessionPath(args[0]) + "/products/" + strconv.FormatInt(rProduct, 10)
			if rVariant != 0 {
				path += "/variants/" + strconv.FormatInt(rVariant, 10)
			}

			var snap session.Snapshot
			if err := api.do(http.MethodDelete, path, nil, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	removeCmd.Flags().Int64Var(&rProduct, "product", 0, "product id")
	removeCmd.Flags().Int64Var(&rVariant, "variant", 0, "variant id")
	rootCmd.AddCommand(removeCmd)

	// open
	var openIndex int
	openCmd := &cobra.Command{
		Use:   "open <session-id>",
		Short: "Open the selection dialog (edit an entry with --index)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]int{"index": openIndex}
			var snap session.Snapshot
			if err := api.do(http.MethodPost, sessionPath(args[0])+"/dialog", body, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	openCmd.Flags().IntVar(&openIndex, "index", -1, "list index to edit (-1 adds new entries)")
	rootCmd.AddCommand(openCmd)

	// cancel
	cancelCmd := &cobra.Command{
		Use:   "cancel <session-id>",
		Short: "Close the dialog, discarding the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap session.Snapshot
			if err := api.do(http.MethodDelete, sessionPath(args[0])+"/dialog", nil, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	rootCmd.AddCommand(cancelCmd)

	// search
	var query string
	searchCmd := &cobra.Command{
		Use:   "search <session-id> --query TEXT",
		Short: "Set the dialog search text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"query": query}
			var snap session.Snapshot
			if err := api.do(http.MethodPost, sessionPath(args[0])+"/dialog/search", body, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	searchCmd.Flags().StringVar(&query, "query", "", "search text")
	rootCmd.AddCommand(searchCmd)

	// page
	pageCmd := &cobra.Command{
		Use:   "page <session-id>",
		Short: "Load the next page of search results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap session.Snapshot
			if err := api.do(http.MethodPost, sessionPath(args[0])+"/dialog/page", nil, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	rootCmd.AddCommand(pageCmd)

	// toggle
	var tProduct, tVariant int64
	toggleCmd := &cobra.Command{
		Use:   "toggle <session-id> --product ID [--variant ID]",
		Short: "Toggle a search result (or one of its variants) in the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tProduct == 0 {
				return errors.New("--product required")
			}

			// The toggle endpoints take full records, so look the
			// product up in the current search results first.
			var current session.Snapshot
			if err := api.do(http.MethodGet, sessionPath(args[0]), nil, &current); err != nil {
				return err
			}
			product, err := findResult(current, tProduct)
			if err != nil {
				return err
			}

			var body interface{}
			path := sessionPath(args[0]) + "/dialog/products/toggle"
			if tVariant != 0 {
				variant, err := findVariant(*product, tVariant)
				if err != nil {
					return err
				}
				path = sessionPath(args[0]) + "/dialog/variants/toggle"
				body = map[string]interface{}{"product_id": product.ID, "variant": variant}
			} else {
				body = map[string]interface{}{"product": product}
			}

			var snap session.Snapshot
			if err := api.do(http.MethodPost, path, body, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	toggleCmd.Flags().Int64Var(&tProduct, "product", 0, "product id from the search results")
	toggleCmd.Flags().Int64Var(&tVariant, "variant", 0, "variant id within the product")
	rootCmd.AddCommand(toggleCmd)

	// commit
	commitCmd := &cobra.Command{
		Use:   "commit <session-id>",
		Short: "Land the selection in the list and close the dialog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap session.Snapshot
			if err := api.do(http.MethodPost, sessionPath(args[0])+"/dialog/commit", nil, &snap); err != nil {
				return err
			}
			return printSnapshot(snap)
		},
	}
	rootCmd.AddCommand(commitCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func sessionPath(id string) string {
	return "/sessions/" + url.PathEscape(id)
}

// parseRef parses a "scope:id" drag reference, e.g. "variant:203".
func parseRef(s string) (model.ItemRef, error) {
	scopeStr, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return model.ItemRef{}, fmt.Errorf("invalid item ref %q, want scope:id", s)
	}
	scope, err := model.ParseScope(scopeStr)
	if err != nil {
		return model.ItemRef{}, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return model.ItemRef{}, fmt.Errorf("invalid item ref id %q", idStr)
	}
	return model.ItemRef{Scope: scope, ID: id}, nil
}

// findResult locates a product in the dialog's search results.
func findResult(snap session.Snapshot, productID int64) (*model.Product, error) {
	for i := range snap.Search.Results {
		if snap.Search.Results[i].ID == productID {
			return &snap.Search.Results[i], nil
		}
	}
	return nil, fmt.Errorf("product %d not in the current search results", productID)
}

func findVariant(p model.Product, variantID int64) (*model.Variant, error) {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i], nil
		}
	}
	return nil, fmt.Errorf("variant %d not found in product %d", variantID, p.ID)
}

// printSnapshot writes the snapshot in the configured output format.
func printSnapshot(snap session.Snapshot) error {
	if viper.GetString("output") == "text" {
		printSnapshotText(snap)
		return nil
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printSnapshotText(snap session.Snapshot) {
	for i, p := range snap.Products {
		fmt.Printf("%d. [%d] %s%s\n", i+1, p.ID, p.Title, discountSuffix(p.Discount))
		for _, v := range p.Variants {
			fmt.Printf("     [%d] %s  %s%s\n", v.ID, v.Title, formatCents(v.Price), discountSuffix(v.Discount))
		}
	}
	if snap.DialogOpen {
		fmt.Printf("dialog: open (index %d), %d selected, %d results for %q\n",
			snap.EditTarget.Index, snap.Selection.Len(), len(snap.Search.Results), snap.Search.Query)
	}
}

func discountSuffix(d *model.Discount) string {
	if d == nil || d.Amount == "" {
		return ""
	}
	if d.Kind == model.DiscountPercentage {
		return fmt.Sprintf("  (-%s%%)", d.Amount)
	}
	return fmt.Sprintf("  (-$%s)", d.Amount)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
