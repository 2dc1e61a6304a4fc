package controller

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	constants "github.com/sh5080/vision-go/pkg/types"
	requestDto "github.com/sh5080/vision-go/pkg/types/dtos/requests"
	responseDto "github.com/sh5080/vision-go/pkg/types/dtos/responses"
	"github.com/sh5080/vision-go/pkg/utils"
)

// ownerID는 게이트웨이가 검증해 전달한 사용자 식별자를 추출합니다
func ownerID(c *fiber.Ctx) string {
	return c.Get("X-User-Id")
}

// AnalyzeImage는 이미지 분석 요청을 접수하는 핸들러입니다.
// 멀티파트 폼의 "image" 필드로 이미지를 받고 201과 함께 작업 요약을 반환합니다.
func AnalyzeImage(visionService _interface.VisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := ownerID(c)
		if owner == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": constants.ErrOwnerRequired.Error(),
			})
		}

		var req requestDto.AnalyzeImageForm
		if err := utils.ParseAndValidate(map[string]string{
			"title": c.FormValue("title"),
		}, &req); err != nil {
			return err
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": constants.ErrImageRequired.Error(),
			})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "이미지 파일 열기 실패: " + err.Error(),
			})
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "이미지 파일 읽기 실패: " + err.Error(),
			})
		}

		job, err := visionService.AnalyzeImage(owner, req.Title, fileHeader.Filename, data)
		if err != nil {
			if isValidationError(err) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "분석 요청 처리 중 오류 발생: " + err.Error(),
			})
		}

		response := responseDto.AnalysisCreated{
			Success: true,
			Analysis: responseDto.AnalysisSummary{
				ID:       job.ID,
				Title:    job.Title,
				ImageRef: job.ImageRef,
				Status:   job.Status,
			},
		}

		return c.Status(fiber.StatusCreated).JSON(response)
	}
}

// GetAnalysis는 분석 작업 하나를 조회하는 핸들러입니다.
// 본인 소유가 아닌 작업은 존재 여부를 숨기기 위해 404로 응답합니다.
func GetAnalysis(visionService _interface.VisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := ownerID(c)
		if owner == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": constants.ErrOwnerRequired.Error(),
			})
		}

		job, err := visionService.GetAnalysis(owner, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "작업 조회 중 오류 발생: " + err.Error(),
			})
		}
		if job == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "분석 작업을 찾을 수 없습니다",
			})
		}

		return c.JSON(responseDto.Analysis{
			Success:  true,
			Analysis: job,
		})
	}
}

// GetAnalyses는 사용자의 분석 이력을 조회하는 핸들러입니다
func GetAnalyses(visionService _interface.VisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := ownerID(c)
		if owner == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": constants.ErrOwnerRequired.Error(),
			})
		}

		queries := c.Queries()
		var req requestDto.AnalysisListQuery
		if err := utils.ParseAndValidate(queries, &req); err != nil {
			return err
		}

		limit, offset := utils.PaginationRequest(req.Limit, req.Offset)

		jobs, totalResults, err := visionService.GetUserAnalyses(owner, limit, offset)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "이력 조회 중 오류 발생: " + err.Error(),
			})
		}

		response := responseDto.AnalysisList{
			Success:      true,
			TotalResults: totalResults,
			Page:         offset/limit + 1,
			ItemsPerPage: limit,
			Analyses:     jobs,
		}

		return c.JSON(response)
	}
}

// isValidationError는 제출 시점 검증 오류인지 확인합니다
func isValidationError(err error) bool {
	return errors.Is(err, constants.ErrImageRequired) ||
		errors.Is(err, constants.ErrImageTooLarge) ||
		errors.Is(err, constants.ErrUnsupportedImageType) ||
		errors.Is(err, constants.ErrOwnerRequired)
}
