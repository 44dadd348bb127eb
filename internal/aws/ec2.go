// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ec2v2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/tfctl/awsutil/internal/cloud"
	"github.com/tfctl/awsutil/internal/instance"
	"github.com/tfctl/awsutil/internal/log"
)

// Defaults for the EC2 waiters. The delays match the SDK's own defaults.
const (
	DefaultMaxWait  = 10 * time.Minute
	DefaultMinDelay = 15 * time.Second
	DefaultMaxDelay = 120 * time.Second
)

// EC2API is the subset of the EC2 client used by Compute. It also satisfies
// ec2.DescribeInstancesAPIClient so the SDK waiters can drive it.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2v2.DescribeInstancesInput, optFns ...func(*ec2v2.Options)) (*ec2v2.DescribeInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2v2.StartInstancesInput, optFns ...func(*ec2v2.Options)) (*ec2v2.StartInstancesOutput, error)
}

var (
	_ EC2API           = (*ec2v2.Client)(nil)
	_ instance.Compute = (*Compute)(nil)
)

// Compute implements instance.Compute on top of EC2.
type Compute struct {
	api      EC2API
	maxWait  time.Duration
	minDelay time.Duration
	maxDelay time.Duration
}

// ComputeOption customizes a Compute.
type ComputeOption func(*Compute)

// NewCompute returns a Compute backed by api.
func NewCompute(api EC2API, opts ...ComputeOption) *Compute {
	c := &Compute{
		api:      api,
		maxWait:  DefaultMaxWait,
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	// The SDK waiters refuse a min delay above the max delay.
	if c.maxDelay < c.minDelay {
		log.Debugf("max delay raised to min delay: minDelay=%s maxDelay=%s", c.minDelay, c.maxDelay)
		c.maxDelay = c.minDelay
	}
	log.Debugf("compute created: maxWait=%s minDelay=%s maxDelay=%s", c.maxWait, c.minDelay, c.maxDelay)
	return c
}

// WithMaxWait bounds each state wait. Non-positive values keep the default.
func WithMaxWait(d time.Duration) ComputeOption {
	return func(c *Compute) {
		if d > 0 {
			c.maxWait = d
		}
	}
}

// WithPollDelay sets the waiter's minimum and maximum delay between polls.
// Non-positive values keep the defaults. A max below the min is raised to it.
func WithPollDelay(minDelay, maxDelay time.Duration) ComputeOption {
	return func(c *Compute) {
		if minDelay > 0 {
			c.minDelay = minDelay
		}
		if maxDelay > 0 {
			c.maxDelay = maxDelay
		}
	}
}

// Describe returns the EC2 description of a single instance.
func (c *Compute) Describe(ctx context.Context, id instance.ID) (types.Instance, error) {
	out, err := c.api.DescribeInstances(ctx, describeInput(id))
	if err != nil {
		log.Debugf("describe err: id=%s err=%v", id, err)
		return types.Instance{}, classify(err)
	}

	for _, r := range out.Reservations {
		for _, i := range r.Instances {
			if awsv2.ToString(i.InstanceId) == string(id) {
				return i, nil
			}
		}
	}

	log.Debugf("describe returned no match: id=%s reservations=%d", id, len(out.Reservations))
	return types.Instance{}, fmt.Errorf("%w: instance %s", cloud.ErrNotFound, id)
}

// State returns the current power state of the instance.
func (c *Compute) State(ctx context.Context, id instance.ID) (instance.State, error) {
	i, err := c.Describe(ctx, id)
	if err != nil {
		return "", err
	}
	if i.State == nil {
		return instance.StateOther, nil
	}
	return instance.ParseState(string(i.State.Name)), nil
}

// RequestStart issues StartInstances. EC2 accepts the call for an instance
// that is already running and leaves it running.
func (c *Compute) RequestStart(ctx context.Context, id instance.ID) error {
	out, err := c.api.StartInstances(ctx, &ec2v2.StartInstancesInput{
		InstanceIds: []string{string(id)},
	})
	if err != nil {
		log.Debugf("start err: id=%s err=%v", id, err)
		return classify(err)
	}

	for _, sc := range out.StartingInstances {
		var prev, cur types.InstanceStateName
		if sc.PreviousState != nil {
			prev = sc.PreviousState.Name
		}
		if sc.CurrentState != nil {
			cur = sc.CurrentState.Name
		}
		log.Debugf("start accepted: id=%s prev=%s cur=%s", awsv2.ToString(sc.InstanceId), prev, cur)
	}
	return nil
}

// WaitUntilStopped blocks until EC2 reports the instance stopped, the wait
// bound expires, or ctx is done.
func (c *Compute) WaitUntilStopped(ctx context.Context, id instance.ID) error {
	w := ec2v2.NewInstanceStoppedWaiter(c.api, func(o *ec2v2.InstanceStoppedWaiterOptions) {
		o.MinDelay = c.minDelay
		o.MaxDelay = c.maxDelay
	})
	log.Debugf("waiting for stopped: id=%s maxWait=%s", id, c.maxWait)
	return classifyWait(w.Wait(ctx, describeInput(id), c.maxWait))
}

// WaitUntilRunning blocks until EC2 reports the instance running, the wait
// bound expires, or ctx is done.
func (c *Compute) WaitUntilRunning(ctx context.Context, id instance.ID) error {
	w := ec2v2.NewInstanceRunningWaiter(c.api, func(o *ec2v2.InstanceRunningWaiterOptions) {
		o.MinDelay = c.minDelay
		o.MaxDelay = c.maxDelay
	})
	log.Debugf("waiting for running: id=%s maxWait=%s", id, c.maxWait)
	return classifyWait(w.Wait(ctx, describeInput(id), c.maxWait))
}

// PublicAddress returns the instance's public IPv4 address, if any.
func (c *Compute) PublicAddress(ctx context.Context, id instance.ID) (string, bool, error) {
	i, err := c.Describe(ctx, id)
	if err != nil {
		return "", false, err
	}
	addr := awsv2.ToString(i.PublicIpAddress)
	return addr, addr != "", nil
}

func describeInput(id instance.ID) *ec2v2.DescribeInstancesInput {
	return &ec2v2.DescribeInstancesInput{
		InstanceIds: []string{string(id)},
	}
}
