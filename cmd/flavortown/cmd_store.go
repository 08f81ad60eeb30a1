package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/flavortown/pkg/catalog"
	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/export"
	"github.com/vanderheijden86/flavortown/pkg/filter"
	"github.com/vanderheijden86/flavortown/pkg/loader"
	"github.com/vanderheijden86/flavortown/pkg/model"
	"github.com/vanderheijden86/flavortown/pkg/render"
	"github.com/vanderheijden86/flavortown/pkg/watcher"
)

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage store",
	}
	cmd.AddCommand(
		a.storeListCmd(),
		a.storeGetCmd(),
		a.storeCyclesCmd(),
		a.storeExportCmd(),
		a.storeSnapshotCmd(),
	)
	return cmd
}

// catalogFile returns the offline catalog to read, falling back to
// FLAVORTOWN_CATALOG. Empty means the API.
func catalogFile(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(loader.CatalogFileEnvVar)
}

// loadStoreItems reads the store from file, or from the API when file is
// empty. The second result describes the source.
func (a *app) loadStoreItems(ctx context.Context, file string) ([]model.Item, string, error) {
	if file != "" {
		path, err := loader.FindCatalogPath(file)
		if err != nil {
			return nil, "", err
		}
		items, err := a.loadCatalogFile(path)
		return items, path, err
	}

	c, err := a.client()
	if err != nil {
		return nil, "", err
	}
	items, err := c.StoreItems(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fetching store items: %w", err)
	}
	return items, c.BaseURL() + "/store", nil
}

func (a *app) loadCatalogFile(path string) ([]model.Item, error) {
	return loader.LoadItemsFromFileWithOptions(path, loader.ParseOptions{
		WarningHandler: func(msg string) { a.warnErr("%s", msg) },
	})
}

// resolveStore builds the catalog and its parent/child graph.
func resolveStore(items []model.Item) (*catalog.Catalog, *catalog.Graph, error) {
	cat, err := catalog.New(items)
	if err != nil {
		return nil, nil, err
	}
	return cat, catalog.Resolve(cat), nil
}

type storeListOptions struct {
	sort     string
	search   string
	itemType string
	noGroup  bool
	asJSON   bool
	file     string
	watch    bool
}

func (a *app) storeListCmd() *cobra.Command {
	var opts storeListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List store items",
		Long: `List store items. Accessories and upgrades are nested under the item
they attach to unless --no-group is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("sort") {
				opts.sort = a.cfg.Store.Sort
			}
			if _, err := filter.ParseSortMode(opts.sort); err != nil {
				return err
			}
			opts.file = catalogFile(opts.file)
			if opts.watch && opts.file == "" {
				return fmt.Errorf("--watch needs --file or %s", loader.CatalogFileEnvVar)
			}

			items, source, err := a.loadStoreItems(cmd.Context(), opts.file)
			if err != nil {
				return err
			}
			if err := a.renderStore(items, opts); err != nil {
				return err
			}
			if opts.watch {
				return a.watchStore(cmd.Context(), source, opts)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.sort, "sort", "s", string(filter.DefaultSortMode), "sort by: price-asc, price-desc, name")
	f.StringVarP(&opts.search, "search", "q", "", "search items by name or description")
	f.StringVarP(&opts.itemType, "type", "t", "", "filter by item type")
	f.BoolVar(&opts.noGroup, "no-group", false, "disable item grouping")
	f.BoolVar(&opts.asJSON, "json", false, "print the listing as JSON")
	f.StringVarP(&opts.file, "file", "f", "", "read the catalog from a JSON/JSONL file or directory")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-render when the catalog file changes")
	return cmd
}

// renderStore runs the resolve, select and render pipeline over items.
func (a *app) renderStore(items []model.Item, opts storeListOptions) error {
	mode, err := filter.ParseSortMode(opts.sort)
	if err != nil {
		return err
	}
	cat, g, err := resolveStore(items)
	if err != nil {
		return err
	}

	by := filter.ComparatorFor(mode)
	fopts := filter.Options{
		Search: opts.search,
		Type:   opts.itemType,
		Sort:   mode,
	}
	debug.Dump("filter", fopts)
	selected := filter.Select(cat.Items(), fopts, by)
	grouping := a.cfg.Store.Grouping() && !opts.noGroup
	entries := render.Forest(selected, cat, g, render.Options{Grouping: grouping, Compare: by})
	debug.LogIf(len(entries) == 0 && len(selected) > 0,
		"all %d selected items are attached to parents outside the selection", len(selected))

	if opts.asJSON {
		nodes := render.Tree(entries)
		if nodes == nil {
			nodes = []*render.JSONNode{}
		}
		return render.WriteJSON(a.out, render.Listing{
			Total:    cat.Len(),
			Matched:  len(selected),
			Grouped:  grouping,
			Sort:     string(mode),
			Items:    nodes,
			Dangling: g.DanglingCount(),
		})
	}

	switch {
	case cat.Len() == 0:
		a.warn("No store items found.")
		return nil
	case len(selected) == 0:
		a.warn("No items matched your filters.")
		return nil
	}
	if err := render.WriteText(a.out, entries, a.styles); err != nil {
		return err
	}
	a.dim(fmt.Sprintf("Showing %d items (including grouped options).", cat.Len()))
	return nil
}

// watchStore re-renders the listing each time the catalog file changes,
// until ctx is cancelled.
func (a *app) watchStore(ctx context.Context, path string, opts storeListOptions) error {
	defer debug.LogEnterExit("watch " + path)()

	w, err := watcher.New(path, watcher.WithOnError(func(err error) {
		a.warnErr("watching %s: %v", path, err)
	}))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer w.Stop()

	fmt.Fprintln(a.errOut, a.errStyles.Dim.Render("Watching "+path+" for changes (Ctrl+C to stop)"))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changed():
			start := time.Now()
			items, err := a.loadCatalogFile(path)
			if err != nil {
				a.warnErr("reloading %s: %v", path, err)
				continue
			}
			if a.tty {
				fmt.Fprint(a.out, "\x1b[H\x1b[2J")
			} else {
				a.dim(fmt.Sprintf("── reloaded %s ──", time.Now().Format(time.TimeOnly)))
			}
			if err := a.renderStore(items, opts); err != nil {
				a.warnErr("%v", err)
			}
			debug.LogTiming("reload", time.Since(start))
		}
	}
}

func (a *app) storeGetCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "get ID [ID...]",
		Short: "Get store item details",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]model.ItemID, len(args))
			for i, arg := range args {
				id, err := model.ParseItemID(arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			items, err := a.storeItemsByID(cmd.Context(), catalogFile(file), ids)
			if err != nil {
				return err
			}
			for i, item := range items {
				if i > 0 {
					fmt.Fprintln(a.out)
				}
				a.writeItemDetail(item)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "look items up in a catalog file instead of the API")
	return cmd
}

// storeItemsByID fetches items concurrently from the API, or looks them up in
// an offline catalog.
func (a *app) storeItemsByID(ctx context.Context, file string, ids []model.ItemID) ([]*model.Item, error) {
	if file == "" {
		c, err := a.client()
		if err != nil {
			return nil, err
		}
		items, err := c.StoreItemsByID(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("fetching store item: %w", err)
		}
		return items, nil
	}

	all, source, err := a.loadStoreItems(ctx, file)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(all)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Item, len(ids))
	for i, id := range ids {
		if out[i] = cat.Get(id); out[i] == nil {
			return nil, fmt.Errorf("item %s not found in %s", id, source)
		}
	}
	return out, nil
}

func (a *app) writeItemDetail(item *model.Item) {
	s := a.styles
	fmt.Fprintln(a.out, s.Title.Render(item.Name))
	if item.Type != "" {
		fmt.Fprintln(a.out, s.Type.Render("Type: "+item.Type))
	}

	desc := item.DescriptionOr("No description available.")
	if item.LongDescription != nil && *item.LongDescription != "" {
		desc = *item.LongDescription
	}
	a.rule()
	fmt.Fprintln(a.out, a.markdown(desc))
	a.rule()

	fmt.Fprintf(a.out, "Cost: %s tickets\n", s.Cost.Render(render.CostLabel(item)))
	fmt.Fprintf(a.out, "Stock: %s\n", render.StockText(item, s))
	if item.MaxQty != nil && *item.MaxQty > 0 {
		fmt.Fprintf(a.out, "Max Qty: %d\n", *item.MaxQty)
	}
	if item.OnePerPersonEver {
		fmt.Fprintln(a.out, s.Danger.Render("Limit: One per person ever"))
	}
	if item.ImageURL != "" {
		fmt.Fprintln(a.out, "Image: "+s.Link.Render(item.ImageURL))
	}
}

func (a *app) storeCyclesCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Report link cycles in the resolved store graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, _, err := a.loadStoreItems(cmd.Context(), catalogFile(file))
			if err != nil {
				return err
			}
			cat, g, err := resolveStore(items)
			if err != nil {
				return err
			}
			cycles := catalog.Cycles(g)

			if asJSON {
				if cycles == nil {
					cycles = []catalog.Cycle{}
				}
				return render.WriteJSON(a.out, cycles)
			}
			if len(cycles) == 0 {
				a.success("No cycles found.")
				return nil
			}
			for _, c := range cycles {
				labels := make([]string, len(c.IDs))
				for i, id := range c.IDs {
					labels[i] = itemLabel(cat, id)
				}
				if c.SelfLoop {
					fmt.Fprintln(a.out, a.styles.Warning.Render("Self-loop:")+" "+labels[0])
					continue
				}
				fmt.Fprintln(a.out, a.styles.Warning.Render("Cycle:")+" "+strings.Join(labels, " ↔ "))
			}
			a.dim(fmt.Sprintf("Found %d cycles.", len(cycles)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the catalog from a JSON/JSONL file or directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print cycles as JSON")
	return cmd
}

func itemLabel(cat *catalog.Catalog, id model.ItemID) string {
	if item := cat.Get(id); item != nil {
		return id.String() + " " + item.Name
	}
	return id.String()
}

func (a *app) storeExportCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Export items, links and resolved edges to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, source, err := a.loadStoreItems(cmd.Context(), catalogFile(file))
			if err != nil {
				return err
			}
			cat, g, err := resolveStore(items)
			if err != nil {
				return err
			}

			exp := export.NewSQLiteExporter(cat, g)
			exp.Source = source
			summary, err := exp.Export(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return render.WriteJSON(a.out, summary)
			}
			a.success(fmt.Sprintf("Exported %d items (%d links, %d edges, %d cycles) to %s",
				summary.Items, summary.Links, summary.Edges, summary.Cycles, summary.Path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the catalog from a JSON/JSONL file or directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the export summary as JSON")
	return cmd
}

func (a *app) storeSnapshotCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "snapshot PATH",
		Short: "Save the store catalog to a local JSON file",
		Long: `Save the store catalog to a local JSON file. The file can be read
back with "store list --file PATH" or FLAVORTOWN_CATALOG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, _, err := a.loadStoreItems(cmd.Context(), catalogFile(file))
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return errors.New("store is empty; nothing to save")
			}
			if err := loader.SaveItems(args[0], items); err != nil {
				return err
			}
			a.success(fmt.Sprintf("Saved %d items to %s", len(items), args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the catalog from a file instead of the API")
	return cmd
}
