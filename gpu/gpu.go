// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu uploads meshes, textures and shaders to a WebGPU HAL device.
//
// A Device either owns a standalone device opened with Open, or borrows one
// from a host application through FromProvider or NewDevice. Every resource
// created through a Device has an idempotent Release method. Mesh buffers
// are attached to their mesh, so regenerating or clearing the mesh releases
// them.
//
// Build with the nogpu tag to leave this package out.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/primer"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned by the upload functions.
var (
	// ErrNoDevice is returned when no usable HAL device is available.
	ErrNoDevice = errors.New("gpu: no device")

	// ErrClosed is returned when a closed Device is used.
	ErrClosed = errors.New("gpu: device closed")

	// ErrEmptyData is returned for uploads without data.
	ErrEmptyData = errors.New("gpu: empty data")

	// ErrInvalidComponents is returned for vertex attributes with a
	// component count outside 1..4.
	ErrInvalidComponents = errors.New("gpu: invalid component count")
)

// Device wraps a HAL device and its queue.
type Device struct {
	device hal.Device
	queue  hal.Queue

	// instance is set when the Device opened its own device and must
	// destroy both on Close.
	instance hal.Instance
	adapter  string
}

// NewDevice wraps an existing device and queue. The caller keeps ownership;
// Close does not destroy them.
func NewDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	return &Device{device: device, queue: queue}, nil
}

// FromProvider wraps the device shared by a host application. The provider
// must also expose HalDevice() and HalQueue() returning the HAL types.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNoDevice)
	}
	primer.Logger().Debug("gpu: using shared device", "format", provider.SurfaceFormat())
	return &Device{device: device, queue: queue}, nil
}

// Open creates a standalone device on the given backend. Discrete and
// integrated GPUs are preferred over other adapters.
//
// The backend must be registered, usually by a blank import such as
// github.com/gogpu/wgpu/hal/vulkan.
func Open(backendType gputypes.Backend) (*Device, error) {
	backend, ok := hal.GetBackend(backendType)
	if !ok {
		return nil, fmt.Errorf("%w: backend %v not available", ErrNoDevice, backendType)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	return openInstance(instance)
}

// openInstance opens the preferred adapter of instance. The returned Device
// owns instance; on failure instance is destroyed.
func openInstance(instance hal.Instance) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no adapters found", ErrNoDevice)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	primer.Logger().Info("gpu: device opened", "adapter", selected.Info.Name)
	return &Device{
		device:   openDev.Device,
		queue:    openDev.Queue,
		instance: instance,
		adapter:  selected.Info.Name,
	}, nil
}

// AdapterName returns the name of the adapter opened by Open, or "" for a
// borrowed device.
func (d *Device) AdapterName() string {
	return d.adapter
}

// HalDevice returns the underlying HAL device, or nil after Close.
func (d *Device) HalDevice() hal.Device {
	return d.device
}

// HalQueue returns the underlying HAL queue, or nil after Close.
func (d *Device) HalQueue() hal.Queue {
	return d.queue
}

// Close destroys the device if the Device opened it. Resources created
// from the Device must be released first. Close is idempotent.
func (d *Device) Close() {
	if d.device == nil {
		return
	}
	if d.instance != nil {
		d.device.Destroy()
		d.instance.Destroy()
		d.instance = nil
	}
	d.device = nil
	d.queue = nil
}

func (d *Device) check() error {
	if d == nil || d.device == nil {
		return ErrClosed
	}
	return nil
}
