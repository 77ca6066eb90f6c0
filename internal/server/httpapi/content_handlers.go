package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/chapel/internal/server/models"
	"github.com/gin-gonic/gin"
)

type sermonRequest struct {
	Speaker    string          `json:"speaker"`
	References json.RawMessage `json:"references"`
	Date       string          `json:"date"`
	Service    string          `json:"service"`
	Type       string          `json:"type"`
	URL        string          `json:"url"`
	Series     string          `json:"series"`
}

// toSermon accepts RFC 3339 timestamps or plain dates. An empty date is left
// zero for the service to judge.
func (r sermonRequest) toSermon() (*models.Sermon, error) {
	s := &models.Sermon{
		Speaker:    r.Speaker,
		References: r.References,
		Service:    r.Service,
		URL:        r.URL,
		Series:     r.Series,
	}
	if s.Service == "" {
		s.Service = r.Type
	}
	if r.Date != "" {
		d, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		s.Date = d
	}
	return s, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

// GET /api/sermons
func (s *Server) listSermons(c *gin.Context) {
	list, err := s.content.ListSermons(c.Request.Context())
	if err != nil {
		s.writeError(c, "httpapi.listSermons", err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sermons": list})
}

// GET /api/sermons/data
func (s *Server) sermonIndex(c *gin.Context) {
	idx, err := s.content.SermonIndex(c.Request.Context())
	if err != nil {
		s.writeError(c, "httpapi.sermonIndex", err, "")
		return
	}
	c.JSON(http.StatusOK, idx)
}

// POST /api/sermons
func (s *Server) createSermon(c *gin.Context) {
	const op = "httpapi.createSermon"

	var req sermonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}
	in, err := req.toSermon()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}

	created, err := s.content.CreateSermon(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, op, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "sermon": created})
}

// PUT /api/sermons/:id
func (s *Server) updateSermon(c *gin.Context) {
	const op = "httpapi.updateSermon"

	var req sermonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}
	patch, err := req.toSermon()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}

	updated, err := s.content.UpdateSermon(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.writeError(c, op, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sermon": updated})
}

// DELETE /api/sermons/:id
func (s *Server) deleteSermon(c *gin.Context) {
	if err := s.content.DeleteSermon(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, "httpapi.deleteSermon", err, "")
		return
	}
	respondOK(c)
}

type speakerRequest struct {
	First     string `json:"first"`
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	FullName  string `json:"fullName"`
	Church    string `json:"church"`
}

// GET /api/speakers
func (s *Server) listSpeakers(c *gin.Context) {
	list, err := s.content.ListSpeakers(c.Request.Context())
	if err != nil {
		s.writeError(c, "httpapi.listSpeakers", err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"speakers": list})
}

// POST /api/speakers
func (s *Server) createSpeaker(c *gin.Context) {
	var req speakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}

	first := req.FirstName
	if first == "" {
		first = req.First
	}

	created, err := s.content.CreateSpeaker(c.Request.Context(), &models.Speaker{
		FirstName: first,
		Surname:   req.Surname,
		FullName:  req.FullName,
		Church:    req.Church,
	})
	if err != nil {
		s.writeError(c, "httpapi.createSpeaker", err, "Speaker already exists")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "speaker": created})
}

// DELETE /api/speakers/:id
func (s *Server) deleteSpeaker(c *gin.Context) {
	if err := s.content.DeleteSpeaker(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, "httpapi.deleteSpeaker", err, "")
		return
	}
	respondOK(c)
}

// GET /api/series
func (s *Server) listSeries(c *gin.Context) {
	list, err := s.content.ListSeries(c.Request.Context())
	if err != nil {
		s.writeError(c, "httpapi.listSeries", err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": list})
}

// POST /api/series
func (s *Server) createSeries(c *gin.Context) {
	var req models.Series
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}
	req.ID = ""

	created, err := s.content.CreateSeries(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, "httpapi.createSeries", err, "Series already exists")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "series": created})
}

// DELETE /api/series/:id
func (s *Server) deleteSeries(c *gin.Context) {
	if err := s.content.DeleteSeries(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, "httpapi.deleteSeries", err, "")
		return
	}
	respondOK(c)
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	StartTime   string `json:"startTime"`
	EndDate     string `json:"endDate"`
	EndTime     string `json:"endTime"`
	Speaker     string `json:"speaker"`
	Type        string `json:"type"`
}

// toEvent combines the date and "HH:MM" time fields in loc. The end is set
// only when both of its parts are present.
func (r eventRequest) toEvent(loc *time.Location) (*models.Event, error) {
	e := &models.Event{
		Title:       r.Title,
		Description: r.Description,
		Speaker:     r.Speaker,
		Type:        r.Type,
	}

	if r.StartDate != "" {
		start, err := combine(r.StartDate, r.StartTime, loc)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		e.Start = start
	}

	if r.EndDate != "" && r.EndTime != "" {
		end, err := combine(r.EndDate, r.EndTime, loc)
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		e.End = &end
	}
	return e, nil
}

func combine(date, clock string, loc *time.Location) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	return time.ParseInLocation(time.DateOnly+" 15:04", strings.TrimSpace(date)+" "+clock, loc)
}

// GET /api/events
func (s *Server) listEvents(c *gin.Context) {
	list, err := s.content.ListEvents(c.Request.Context())
	if err != nil {
		s.writeError(c, "httpapi.listEvents", err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

// POST /api/events
func (s *Server) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}
	in, err := req.toEvent(s.location)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}

	created, err := s.content.CreateEvent(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, "httpapi.createEvent", err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "event": created})
}

// DELETE /api/events/:id
func (s *Server) deleteEvent(c *gin.Context) {
	if err := s.content.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, "httpapi.deleteEvent", err, "")
		return
	}
	respondOK(c)
}

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Date    string `json:"date" form:"date"`
	Message string `json:"message" form:"message"`
}

// POST /api/contact
func (s *Server) contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, invalidRequest)
		return
	}

	_, err := s.content.SubmitMessage(c.Request.Context(), &models.Message{
		Name:    req.Name,
		Email:   req.Email,
		Date:    req.Date,
		Message: req.Message,
	})
	if err != nil {
		s.writeError(c, "httpapi.contact", err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message Sent"})
}

// GET /api/messages
func (s *Server) listMessages(c *gin.Context) {
	list, err := s.content.ListMessages(c.Request.Context())
	if err != nil {
		s.writeError(c, "httpapi.listMessages", err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}
