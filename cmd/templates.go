package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/state"
)

// TemplatesList lists all shopping templates.
func (r *Runner) TemplatesList(ctx context.Context, cmd *cli.Command) error {
	templates, err := r.api.Templates.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(templates, true)
	}

	for _, t := range templates {
		r.writePlain("%d  %s (%d items, for %d people)\n", t.ID, t.Name, len(t.Items), t.PersonCount)
	}
	return nil
}

// TemplatesShow prints a template with its lines.
func (r *Runner) TemplatesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	tmpl, err := r.api.Templates.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tmpl, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s (for %d people)", tmpl.Name, tmpl.PersonCount))
	if tmpl.Description != nil && *tmpl.Description != "" {
		r.writePlain("%s\n\n", *tmpl.Description)
	}
	for _, item := range tmpl.Items {
		if item.Menge != nil && *item.Menge != "" {
			r.writePlain("  • %s (%s)\n", item.Name, *item.Menge)
		} else {
			r.writePlain("  • %s\n", item.Name)
		}
	}
	return nil
}

// TemplatesCreate creates a template from --item lines.
func (r *Runner) TemplatesCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: template name", shared.ErrMissingArgument)
	}

	lines := cmd.StringSlice("item")
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one --item line", shared.ErrMissingArgument)
	}

	items := make([]models.TemplateItemCreate, 0, len(lines))
	for _, line := range lines {
		item := models.TemplateItemCreate{Name: line}
		if itemName, menge, found := strings.Cut(line, "="); found {
			item.Name = strings.TrimSpace(itemName)
			item.Menge = models.Ptr(strings.TrimSpace(menge))
		}
		if item.Name == "" {
			return fmt.Errorf("%w: empty item name in %q", shared.ErrInvalidArgument, line)
		}
		items = append(items, item)
	}

	create := models.TemplateCreate{
		Name:        name,
		PersonCount: int(cmd.Int("persons")),
		Items:       items,
	}
	if desc := cmd.String("description"); desc != "" {
		create.Description = &desc
	}

	created, err := r.api.Templates.Create(ctx, create)
	if err != nil {
		return err
	}

	r.writePlain("✓ Template %q created (id %d, %d items)\n", created.Name, created.ID, len(created.Items))
	return nil
}

// TemplatesRemove deletes a template.
func (r *Runner) TemplatesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.api.Templates.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Template %d deleted\n", id)
	return nil
}

// TemplatesApply pushes a template's lines onto the shopping list, scaling
// quantities when --persons differs from the template's person count and
// dropping lines named by --skip.
func (r *Runner) TemplatesApply(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	tmpl, err := r.api.Templates.Get(ctx, id)
	if err != nil {
		return err
	}

	var delta *models.WeekplanDelta
	if persons := int(cmd.Int("persons")); persons > 0 {
		delta = &models.WeekplanDelta{PersonCount: &persons}
	}
	if skipped := cmd.StringSlice("skip"); len(skipped) > 0 {
		if delta == nil {
			delta = &models.WeekplanDelta{}
		}
		delta.RemovedItems = skipped
	}

	lines := state.RenderTemplate(*tmpl, delta)
	date := cmd.String("date")

	for _, line := range lines {
		item := models.Item{Name: line.Name, Menge: line.Menge}
		if date != "" {
			item.ShoppingDate = &date
		}
		if _, err := r.api.Items.Add(ctx, item); err != nil {
			return fmt.Errorf("failed to add %q: %w", line.Name, err)
		}
	}

	r.writePlain("✓ Added %d items from %q\n", len(lines), tmpl.Name)
	return nil
}
