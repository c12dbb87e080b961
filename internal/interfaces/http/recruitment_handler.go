package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/recruitment"
	"github.com/jhoicas/crm-api/internal/domain"
)

// RecruitmentHandler vacantes públicas, postulaciones y su gestión interna.
type RecruitmentHandler struct {
	uc *recruitment.UseCase
}

// NewRecruitmentHandler construye el handler.
func NewRecruitmentHandler(uc *recruitment.UseCase) *RecruitmentHandler {
	return &RecruitmentHandler{uc: uc}
}

// ListOpenJobs godoc
// @Summary      Vacantes abiertas (público)
// @Tags         recruitment
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.JobResponse
// @Router       /api/jobs [get]
func (h *RecruitmentHandler) ListOpenJobs(c *fiber.Ctx) error {
	return h.listJobs(c, true)
}

// ListAllJobs GET /api/recruitment/jobs (incluye cerradas)
func (h *RecruitmentHandler) ListAllJobs(c *fiber.Ctx) error {
	return h.listJobs(c, false)
}

func (h *RecruitmentHandler) listJobs(c *fiber.Ctx, onlyOpen bool) error {
	page, err := queryPage(c)
	if err != nil {
		return err
	}
	list, meta, err := h.uc.ListJobs(c.UserContext(), onlyOpen, page)
	if err != nil {
		return err
	}
	out := make([]dto.JobResponse, 0, len(list))
	for _, j := range list {
		out = append(out, dto.NewJobResponse(j))
	}
	return okPage(c, out, meta)
}

// GetJob godoc
// @Summary      Detalle de vacante (público)
// @Tags         recruitment
// @Produce      json
// @Param        id   path  string  true  "ID de la vacante"
// @Success      200  {object}  dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [get]
func (h *RecruitmentHandler) GetJob(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	job, err := h.uc.GetJob(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewJobResponse(job))
}

// Apply godoc
// @Summary      Postularse a una vacante (multipart con hoja de vida)
// @Tags         recruitment
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      string  true   "ID de la vacante"
// @Param        full_name     formData  string  true   "Nombre completo"
// @Param        email         formData  string  true   "Email"
// @Param        phone         formData  string  false  "Teléfono"
// @Param        cover_letter  formData  string  false  "Carta de presentación"
// @Param        file          formData  file    true   "Hoja de vida (pdf, doc, docx)"
// @Success      201  {object}  dto.ApplicationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "vacante cerrada"
// @Failure      500  {object}  dto.ErrorResponse  "fallo al almacenar el archivo"
// @Router       /api/jobs/{id}/apply [post]
func (h *RecruitmentHandler) Apply(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.ApplyRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	app, err := h.uc.Apply(c.UserContext(), id, in, file)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, dto.NewApplicationResponse(app))
}

// CreateJob POST /api/recruitment/jobs
func (h *RecruitmentHandler) CreateJob(c *fiber.Ctx) error {
	var in dto.JobRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	job, err := h.uc.CreateJob(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, dto.NewJobResponse(job))
}

// UpdateJob PUT /api/recruitment/jobs/:id
func (h *RecruitmentHandler) UpdateJob(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.JobRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	job, err := h.uc.UpdateJob(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewJobResponse(job))
}

// CloseJob POST /api/recruitment/jobs/:id/close
func (h *RecruitmentHandler) CloseJob(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	job, err := h.uc.CloseJob(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewJobResponse(job))
}

// ListApplications GET /api/recruitment/jobs/:id/applications
func (h *RecruitmentHandler) ListApplications(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, err := queryPage(c)
	if err != nil {
		return err
	}
	list, meta, err := h.uc.ListApplications(c.UserContext(), id, page)
	if err != nil {
		return err
	}
	out := make([]dto.ApplicationResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewApplicationResponse(a))
	}
	return okPage(c, out, meta)
}

// UpdateApplicationStatus PATCH /api/recruitment/applications/:id
func (h *RecruitmentHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.ApplicationStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	app, err := h.uc.UpdateApplicationStatus(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, dto.NewApplicationResponse(app))
}

// formFile lee en memoria el archivo adjunto del formulario multipart.
func formFile(c *fiber.Ctx, field string) (dto.UploadedFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return dto.UploadedFile{}, domain.Invalid(field, "es requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return dto.UploadedFile{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return dto.UploadedFile{}, err
	}
	return dto.UploadedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
