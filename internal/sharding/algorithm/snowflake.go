package algorithm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const TypeSnowflake = "SNOWFLAKE"

const (
	sequenceBits    = 12
	workerIDBits    = 10
	sequenceMask    = 1<<sequenceBits - 1
	maxWorkerID     = 1<<workerIDBits - 1
	workerIDShift   = sequenceBits
	timestampShift  = sequenceBits + workerIDBits
	defaultTolerate = 10
)

// snowflakeEpoch 2016-11-01 00:00:00 UTC
var snowflakeEpoch = time.Date(2016, time.November, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

var _ KeyGenerateAlgorithm = &Snowflake{}

// Snowflake 雪花算法 41bit 时间戳 + 10bit workerID + 12bit 序列号
type Snowflake struct {
	mu                 sync.Mutex
	workerID           int64
	maxTolerate        time.Duration
	maxVibrationOffset int64

	vibrationOffset int64
	sequence        int64
	lastMillis      int64

	now   func() time.Time
	sleep func(d time.Duration)
}

func NewSnowflake(props map[string]string) (*Snowflake, error) {
	p := struct {
		WorkerID           int64 `prop:"worker-id"`
		MaxTolerateMillis  int64 `prop:"max-tolerate-time-difference-milliseconds"`
		MaxVibrationOffset int64 `prop:"max-vibration-offset"`
	}{
		MaxTolerateMillis:  defaultTolerate,
		MaxVibrationOffset: 1,
	}
	if err := decodeProps(props, &p); err != nil {
		return nil, err
	}
	if p.WorkerID < 0 || p.WorkerID > maxWorkerID {
		return nil, fmt.Errorf("%w: worker-id 必须在 [0, %d] 之间", ErrInvalidProps, maxWorkerID)
	}
	if p.MaxVibrationOffset < 0 || p.MaxVibrationOffset > sequenceMask {
		return nil, fmt.Errorf("%w: max-vibration-offset 必须在 [0, %d] 之间", ErrInvalidProps, sequenceMask)
	}
	if p.MaxTolerateMillis < 0 {
		return nil, fmt.Errorf("%w: max-tolerate-time-difference-milliseconds 不能小于 0", ErrInvalidProps)
	}
	return &Snowflake{
		workerID:           p.WorkerID,
		maxTolerate:        time.Duration(p.MaxTolerateMillis) * time.Millisecond,
		maxVibrationOffset: p.MaxVibrationOffset,
		now:                time.Now,
		sleep:              time.Sleep,
	}, nil
}

func (s *Snowflake) Type() string {
	return TypeSnowflake
}

func (s *Snowflake) GenerateKey(_ context.Context) (any, error) {
	return s.nextID()
}

func (s *Snowflake) nextID() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	if now < s.lastMillis {
		drift := time.Duration(s.lastMillis-now) * time.Millisecond
		if drift > s.maxTolerate {
			return 0, fmt.Errorf("%w: 回拨 %v, 最大容忍 %v", ErrClockBackwards, drift, s.maxTolerate)
		}
		s.sleep(drift)
		now = s.now().UnixMilli()
		if now < s.lastMillis {
			return 0, fmt.Errorf("%w: 等待后仍然回拨 %dms", ErrClockBackwards, s.lastMillis-now)
		}
	}

	if now == s.lastMillis {
		s.sequence = (s.sequence + 1) & sequenceMask
		if s.sequence == 0 {
			// 序列号用完，等到下一毫秒
			for now <= s.lastMillis {
				now = s.now().UnixMilli()
			}
		}
	} else {
		s.vibrateSequenceOffset()
		s.sequence = s.vibrationOffset
	}
	s.lastMillis = now
	return (now-snowflakeEpoch)<<timestampShift | s.workerID<<workerIDShift | s.sequence, nil
}

// vibrateSequenceOffset 毫秒切换时序列号起点在 [0, maxVibrationOffset] 之间摆动
func (s *Snowflake) vibrateSequenceOffset() {
	if s.vibrationOffset >= s.maxVibrationOffset {
		s.vibrationOffset = 0
		return
	}
	s.vibrationOffset++
}
