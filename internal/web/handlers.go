package web

import (
	"net/http"
	"strings"

	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/errors"
	"github.com/hpungsan/rolo/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	svc      *ops.Service
	renderer *Renderer
}

// HandleList handles GET /contacts: list every contact.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.svc.HandleGetAllContacts(r.Context(), ops.GetAllContactsQuery{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	views := contact.ToViews(contacts)
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"contacts": views,
			"count":    len(views),
		})
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Contacts",
			Version: h.renderer.version,
			Nav:     "contacts",
		},
		Contacts: views,
	})
}

// HandleSearch handles GET /contacts/search: exact name lookup.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	data := SearchPageData{
		PageData: PageData{
			Title:   "Search",
			Version: h.renderer.version,
			Nav:     "search",
		},
		Name:     name,
		HasQuery: name != "",
	}

	if name != "" {
		c, found, err := h.svc.HandleGetContactByName(r.Context(), ops.GetContactByNameQuery{Name: name})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Found = found
		if found {
			data.Contact = contact.ToView(c)
		}
	}

	if wantsJSON(r) {
		resp := map[string]any{"found": data.Found}
		if data.Found {
			resp["contact"] = data.Contact
		}
		renderJSON(w, http.StatusOK, resp)
		return
	}

	h.renderer.renderPage(w, "search", data)
}

// HandleDetail handles GET /contacts/{name}: view a single contact.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("contact name is required"))
		return
	}

	c, found, err := h.svc.HandleGetContactByName(r.Context(), ops.GetContactByNameQuery{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if !found {
		h.renderer.renderError(w, r, errors.NewNotFound(name))
		return
	}

	view := contact.ToView(c)
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, view)
		return
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   c.Name,
			Version: h.renderer.version,
			Nav:     "contacts",
		},
		Contact:      view,
		RenderedHTML: renderMarkdown(contactMarkdown(c)),
	})
}

// HandleDelete handles DELETE /contacts/{name}: delete a contact.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("contact name is required"))
		return
	}

	deleted, err := h.svc.HandleDeleteContact(r.Context(), ops.DeleteContactCommand{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if !deleted {
		h.renderer.renderError(w, r, errors.NewNotFound(name))
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": true,
			"name":    name,
		})
		return
	}

	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}
