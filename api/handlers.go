package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/CristiGvl/produce/internal/battery"
	"github.com/CristiGvl/produce/internal/platform"
	"github.com/gofiber/fiber/v2"
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// statusFor maps accessor errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, battery.ErrAlreadyOpen):
		return fiber.StatusConflict
	case errors.Is(err, battery.ErrNotFound), errors.Is(err, battery.ErrPropertyAbsent):
		return fiber.StatusNotFound
	case errors.Is(err, platform.ErrUnsupported):
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// Battery endpoint
func (s *Server) getBattery(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	info, err := s.readers.Battery.GetInfo(ctx)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(info)
}

func (s *Server) openBattery(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	if err := s.readers.Battery.Open(ctx); err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{"status": "open"})
}

func (s *Server) closeBattery(c *fiber.Ctx) error {
	if err := s.readers.Battery.Close(); err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{"status": "closed"})
}

// CPU endpoint
func (s *Server) getCPU(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	info, err := s.readers.CPU.GetInfo(ctx)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(info)
}

func (s *Server) getCPUUsage(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	usage, err := s.readers.CPU.GetUsage(ctx)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(usage)
}

func (s *Server) getProcessArch(c *fiber.Ctx) error {
	// pid_t is 32 bits; larger values would be truncated by sysctl.
	pid, err := strconv.ParseInt(c.Params("pid"), 10, 32)
	if err != nil || pid < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid pid"})
	}

	arch := s.readers.CPU.Arch(int(pid))
	return c.JSON(fiber.Map{
		"pid":  pid,
		"arch": arch,
		"code": arch.Code(),
	})
}

// GPU endpoint
func (s *Server) getGPU(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	info, err := s.readers.GPU.GetInfo(ctx)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(info)
}

// Network endpoint
func (s *Server) getNetwork(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	info, err := s.readers.Network.GetInfo(ctx)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(info)
}

// Device endpoint
func (s *Server) getDevice(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	info, err := s.readers.Device.GetInfo(ctx)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(info)
}
