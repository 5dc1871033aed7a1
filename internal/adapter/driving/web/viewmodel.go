package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	vm "github.com/ericfisherdev/costumedesk/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
)

// costumePath returns the GUI path of costume id, with optional suffix segments.
func costumePath(id string, suffix ...string) string {
	p := model.PathCostumes + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func toCostumeRowViewModel(c model.Costume) vm.CostumeRowViewModel {
	return vm.CostumeRowViewModel{
		ID:         c.ID,
		Name:       c.Name,
		Category:   c.Category,
		Size:       c.Size,
		Color:      c.Color,
		Era:        c.Era,
		Quantity:   c.Quantity,
		UpdatedAt:  formatTimestamp(c.UpdatedAt),
		DetailPath: costumePath(c.ID),
	}
}

// toCostumeListViewModel keeps costumes whose name, category, color or era
// contains query, case-insensitively.
func toCostumeListViewModel(costumes []model.Costume, query string) vm.CostumeListViewModel {
	query = strings.TrimSpace(query)
	needle := strings.ToLower(query)

	rows := make([]vm.CostumeRowViewModel, 0, len(costumes))
	for _, c := range costumes {
		if needle != "" && !matchesQuery(c, needle) {
			continue
		}
		rows = append(rows, toCostumeRowViewModel(c))
	}

	return vm.CostumeListViewModel{
		Costumes: rows,
		Query:    query,
		Total:    len(costumes),
	}
}

func matchesQuery(c model.Costume, needle string) bool {
	for _, field := range []string{c.Name, c.Category, c.Color, c.Era} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func toCostumeDetailViewModel(c model.Costume) vm.CostumeDetailViewModel {
	return vm.CostumeDetailViewModel{
		CostumeRowViewModel: toCostumeRowViewModel(c),
		ImageURL:            safeImageURL(c.ImageURL),
		DescriptionHTML:     RenderMarkdownHTML(c.Description),
		CreatedAt:           formatTimestamp(c.CreatedAt),
		EditPath:            costumePath(c.ID, "edit"),
		DeletePath:          costumePath(c.ID, "delete"),
		DownloadPath:        costumePath(c.ID, "download"),
	}
}

// safeImageURL drops anything but absolute http(s) URLs.
func safeImageURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}

func newCostumeFormViewModel() vm.CostumeFormViewModel {
	return vm.CostumeFormViewModel{
		Action:      model.PathCostumes,
		SubmitLabel: "Create costume",
		CancelPath:  model.PathCostumes,
		Values:      vm.CostumeFormValues{Quantity: "1"},
	}
}

func editCostumeFormViewModel(c model.Costume) vm.CostumeFormViewModel {
	in := c.Input()
	return vm.CostumeFormViewModel{
		ID:          c.ID,
		Action:      costumePath(c.ID),
		SubmitLabel: "Save changes",
		CancelPath:  costumePath(c.ID),
		Values: vm.CostumeFormValues{
			Name:        in.Name,
			Category:    in.Category,
			Size:        in.Size,
			Color:       in.Color,
			Era:         in.Era,
			Quantity:    strconv.Itoa(in.Quantity),
			Description: in.Description,
			ImageURL:    in.ImageURL,
		},
	}
}

// parseCostumeForm reads the submitted form into a CostumeInput. Field errors
// are returned keyed by form field name; the input is only usable when the
// map is empty.
func parseCostumeForm(values url.Values) (vm.CostumeFormValues, model.CostumeInput, map[string]string) {
	raw := vm.CostumeFormValues{
		Name:        strings.TrimSpace(values.Get("name")),
		Category:    strings.TrimSpace(values.Get("category")),
		Size:        strings.TrimSpace(values.Get("size")),
		Color:       strings.TrimSpace(values.Get("color")),
		Era:         strings.TrimSpace(values.Get("era")),
		Quantity:    strings.TrimSpace(values.Get("quantity")),
		Description: values.Get("description"),
		ImageURL:    strings.TrimSpace(values.Get("image_url")),
	}

	errs := map[string]string{}
	if raw.Name == "" {
		errs["name"] = "Name is required."
	} else if len(raw.Name) > 200 {
		errs["name"] = "Name must be at most 200 characters."
	}

	quantity := 0
	if raw.Quantity != "" {
		n, err := strconv.Atoi(raw.Quantity)
		switch {
		case err != nil:
			errs["quantity"] = "Quantity must be a whole number."
		case n < 0:
			errs["quantity"] = "Quantity cannot be negative."
		default:
			quantity = n
		}
	}

	if raw.ImageURL != "" && safeImageURL(raw.ImageURL) == "" {
		errs["image_url"] = "Image URL must be an absolute http(s) URL."
	}

	in := model.CostumeInput{
		Name:        raw.Name,
		Category:    raw.Category,
		Size:        raw.Size,
		Color:       raw.Color,
		Era:         raw.Era,
		Quantity:    quantity,
		Description: raw.Description,
		ImageURL:    raw.ImageURL,
	}
	return raw, in, errs
}

func toFlashViewModels(notes []model.Notification) []vm.FlashViewModel {
	flashes := make([]vm.FlashViewModel, 0, len(notes))
	for _, n := range notes {
		flashes = append(flashes, vm.FlashViewModel{Level: string(n.Level), Message: n.Message})
	}
	return flashes
}

func pageTitle(parts ...string) string {
	parts = append(parts, "Costume Desk")
	return strings.Join(nonEmpty(parts), " · ")
}

func nonEmpty(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func costumeLabel(c model.Costume) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("Costume %s", c.ID)
}
