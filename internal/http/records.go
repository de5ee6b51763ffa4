package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach-records/internal/service"
)

type studentRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Branch string `json:"branch"`
}

func (r studentRequest) input() service.StudentInput {
	return service.StudentInput{Name: r.Name, Age: r.Age, Branch: r.Branch}
}

type volunteerRequest struct {
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Availability string `json:"availability"`
}

func (r volunteerRequest) input() service.VolunteerInput {
	return service.VolunteerInput{Name: r.Name, Contact: r.Contact, Availability: r.Availability}
}

type donorRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Amount  int64  `json:"amount"`
}

func (r donorRequest) input() service.DonorInput {
	return service.DonorInput{Name: r.Name, Contact: r.Contact, Email: r.Email, Amount: r.Amount}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) respond(c *gin.Context, status int, rec jsonRecord, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, rec.ToJSON())
}

func (h *Handler) deleted(c *gin.Context, id string, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// students

func (h *Handler) createStudent(c *gin.Context) {
	var req studentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.records.CreateStudent(c.Request.Context(), req.input(), actorFrom(c))
	h.respond(c, http.StatusCreated, student, err)
}

func (h *Handler) updateStudent(c *gin.Context) {
	var req studentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.records.UpdateStudent(c.Request.Context(), c.Param("id"), req.input(), actorFrom(c))
	h.respond(c, http.StatusOK, student, err)
}

func (h *Handler) getStudent(c *gin.Context) {
	student, err := h.records.GetStudent(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, student, err)
}

func (h *Handler) listStudents(c *gin.Context) {
	students, err := h.records.ListStudents(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSONList(students))
}

func (h *Handler) deleteStudent(c *gin.Context) {
	id := c.Param("id")
	h.deleted(c, id, h.records.DeleteStudent(c.Request.Context(), id))
}

// volunteers

func (h *Handler) createVolunteer(c *gin.Context) {
	var req volunteerRequest
	if !bindJSON(c, &req) {
		return
	}
	volunteer, err := h.records.CreateVolunteer(c.Request.Context(), req.input(), actorFrom(c))
	h.respond(c, http.StatusCreated, volunteer, err)
}

func (h *Handler) updateVolunteer(c *gin.Context) {
	var req volunteerRequest
	if !bindJSON(c, &req) {
		return
	}
	volunteer, err := h.records.UpdateVolunteer(c.Request.Context(), c.Param("id"), req.input(), actorFrom(c))
	h.respond(c, http.StatusOK, volunteer, err)
}

func (h *Handler) getVolunteer(c *gin.Context) {
	volunteer, err := h.records.GetVolunteer(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, volunteer, err)
}

func (h *Handler) listVolunteers(c *gin.Context) {
	volunteers, err := h.records.ListVolunteers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSONList(volunteers))
}

func (h *Handler) deleteVolunteer(c *gin.Context) {
	id := c.Param("id")
	h.deleted(c, id, h.records.DeleteVolunteer(c.Request.Context(), id))
}

// donors

func (h *Handler) createDonor(c *gin.Context) {
	var req donorRequest
	if !bindJSON(c, &req) {
		return
	}
	donor, err := h.records.CreateDonor(c.Request.Context(), req.input(), actorFrom(c))
	h.respond(c, http.StatusCreated, donor, err)
}

func (h *Handler) updateDonor(c *gin.Context) {
	var req donorRequest
	if !bindJSON(c, &req) {
		return
	}
	donor, err := h.records.UpdateDonor(c.Request.Context(), c.Param("id"), req.input(), actorFrom(c))
	h.respond(c, http.StatusOK, donor, err)
}

func (h *Handler) getDonor(c *gin.Context) {
	donor, err := h.records.GetDonor(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, donor, err)
}

func (h *Handler) listDonors(c *gin.Context) {
	donors, err := h.records.ListDonors(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSONList(donors))
}

func (h *Handler) deleteDonor(c *gin.Context) {
	id := c.Param("id")
	h.deleted(c, id, h.records.DeleteDonor(c.Request.Context(), id))
}
