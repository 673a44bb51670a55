package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

func TestWriteBookingsXLSX(t *testing.T) {
	bookings := []models.Booking{
		{
			ID:           "bk_1",
			CustomerName: "Alice",
			ServiceName:  "Haircut",
			Date:         "2026-09-02",
			Time:         "10:30",
			Status:       models.BookingConfirmed,
		},
		{
			ID:                "bk_2",
			CustomerName:      "Bob",
			ServiceName:       "Manicure",
			Date:              "2026-09-02",
			Time:              "14:00",
			Status:            models.BookingPending,
			CustomerConfirmed: false,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookingsXLSX(&buf, "Glow Studio", bookings))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Glow Studio")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Status", rows[0][5])

	assert.Equal(t, "bk_1", rows[1][0])
	assert.Equal(t, "Alice", rows[1][1])
	assert.Equal(t, "Haircut", rows[1][2])
	assert.Equal(t, "10:30", rows[1][4])
	assert.Equal(t, "CONFIRMED", rows[1][5])

	assert.Equal(t, "bk_2", rows[2][0])
	assert.Equal(t, "PENDING", rows[2][5])
}

func TestWriteBookingsXLSXTruncatesSheetName(t *testing.T) {
	long := "An Extremely Long Salon Name That Exceeds The Limit"

	var buf bytes.Buffer
	require.NoError(t, WriteBookingsXLSX(&buf, long, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(long[:31])
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestWriteBookingsXLSXDefaultSheetName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookingsXLSX(&buf, "", nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	_, err = f.GetRows("Bookings")
	assert.NoError(t, err)
}
