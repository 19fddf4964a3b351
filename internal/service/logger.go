package service

import "github.com/m-mizutani/athena-partitioner/internal"

var logger = internal.Logger
