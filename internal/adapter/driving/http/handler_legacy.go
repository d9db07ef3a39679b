package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// The /api/pessoas routes keep the field names and messages of the first
// release of the contact book so existing frontends keep working.

// pessoaResponse is the legacy JSON representation of a contact.
type pessoaResponse struct {
	ID       string `json:"_id"`
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

// pessoaRequest is the legacy body for create and update.
type pessoaRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

type legacyError struct {
	Erro string `json:"erro"`
}

type legacyMessage struct {
	Mensagem string `json:"mensagem"`
}

func toPessoaResponse(c model.Contact) pessoaResponse {
	return pessoaResponse{ID: c.ID, Nome: c.Name, Email: c.Email, Telefone: c.Phone}
}

func (p pessoaRequest) toModel(id string) model.Contact {
	return model.Contact{ID: id, Name: p.Nome, Email: p.Email, Phone: p.Telefone}
}

// ListPessoas is the legacy list endpoint.
func (h *Handler) ListPessoas(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list contacts", "route", "legacy", "error", err)
		writeJSON(w, http.StatusInternalServerError, legacyError{Erro: "Erro ao buscar pessoas"})
		return
	}

	resp := make([]pessoaResponse, 0, len(contacts))
	for _, c := range contacts {
		resp = append(resp, toPessoaResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePessoa is the legacy create endpoint.
func (h *Handler) CreatePessoa(w http.ResponseWriter, r *http.Request) {
	var req pessoaRequest
	if !decodeBody(w, r, &req) {
		writeJSON(w, http.StatusBadRequest, legacyError{Erro: "Dados incompletos"})
		return
	}

	created, err := h.contacts.Create(r.Context(), req.toModel(""))
	if err != nil {
		h.writeLegacyError(w, "create contact", "", err, "Erro ao cadastrar pessoa")
		return
	}
	writeJSON(w, http.StatusCreated, toPessoaResponse(created))
}

// UpdatePessoa is the legacy update endpoint.
func (h *Handler) UpdatePessoa(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req pessoaRequest
	if !decodeBody(w, r, &req) {
		writeJSON(w, http.StatusBadRequest, legacyError{Erro: "Dados incompletos"})
		return
	}

	if err := h.contacts.Update(r.Context(), req.toModel(id)); err != nil {
		h.writeLegacyError(w, "update contact", id, err, "Erro ao atualizar pessoa")
		return
	}
	writeJSON(w, http.StatusOK, legacyMessage{Mensagem: "Pessoa atualizada com sucesso"})
}

// DeletePessoa is the legacy delete endpoint.
func (h *Handler) DeletePessoa(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		h.writeLegacyError(w, "delete contact", id, err, "Erro ao remover pessoa")
		return
	}
	writeJSON(w, http.StatusOK, legacyMessage{Mensagem: "Pessoa removida com sucesso"})
}

func (h *Handler) writeLegacyError(w http.ResponseWriter, op, id string, err error, internal string) {
	switch {
	case errors.Is(err, model.ErrInvalidContact):
		writeJSON(w, http.StatusBadRequest, legacyError{Erro: "Dados incompletos"})
	case errors.Is(err, driven.ErrContactNotFound):
		writeJSON(w, http.StatusNotFound, legacyError{Erro: "Pessoa não encontrada"})
	default:
		h.logger.Error("failed to "+op, "route", "legacy", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, legacyError{Erro: internal})
	}
}
